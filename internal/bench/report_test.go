package bench

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestRun(t *testing.T) {
	cfg := Config{
		NumElements: 10_000,
		BitWidths:   []int{32, 16, 8, 4, 2},
		Seed:        1,
	}

	report, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Rows) != len(cfg.BitWidths) {
		t.Fatalf("Row count = %d, want %d", len(report.Rows), len(cfg.BitWidths))
	}

	for i, row := range report.Rows {
		bits := cfg.BitWidths[i]
		if row.Bits != bits {
			t.Errorf("Row %d bits = %d, want %d", i, row.Bits, bits)
		}

		wantBytes := (cfg.NumElements*bits + 7) / 8
		if row.FootprintBytes != wantBytes {
			t.Errorf("Bits %d footprint = %d, want %d", bits, row.FootprintBytes, wantBytes)
		}

		if bits > 8 {
			if row.Measured {
				t.Errorf("Bits %d should be a storage-only row", bits)
			}
			continue
		}
		if !row.Measured {
			t.Errorf("Bits %d should be measured", bits)
		}
		if row.MaxAbsError <= 0 {
			t.Errorf("Bits %d max error = %g, want > 0", bits, row.MaxAbsError)
		}
		if row.MeanAbsError <= 0 || row.MeanAbsError > row.MaxAbsError {
			t.Errorf("Bits %d mean error = %g, max = %g", bits, row.MeanAbsError, row.MaxAbsError)
		}
	}
}

func TestRunErrorGrowsAtLowerBits(t *testing.T) {
	report, err := Run(Config{NumElements: 50_000, BitWidths: []int{8, 4, 2}, Seed: 7})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Same data, fewer codes: mean error must grow as bits shrink.
	for i := 1; i < len(report.Rows); i++ {
		prev, cur := report.Rows[i-1], report.Rows[i]
		if cur.MeanAbsError <= prev.MeanAbsError {
			t.Errorf("Mean error at %d bits (%g) not above %d bits (%g)",
				cur.Bits, cur.MeanAbsError, prev.Bits, prev.MeanAbsError)
		}
	}
}

func TestRunValidation(t *testing.T) {
	if _, err := Run(Config{NumElements: 0, BitWidths: []int{8}}); err == nil {
		t.Error("Zero elements should fail")
	}
	if _, err := Run(Config{NumElements: 10, BitWidths: nil}); err == nil {
		t.Error("Empty bit-widths should fail")
	}
	if _, err := Run(Config{NumElements: 10, BitWidths: []int{64}}); err == nil {
		t.Error("Bit-width 64 should fail")
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := Config{NumElements: 1_000, BitWidths: []int{4}, Seed: 3}

	a, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if a.Rows[0].MaxAbsError != b.Rows[0].MaxAbsError ||
		a.Rows[0].MeanAbsError != b.Rows[0].MeanAbsError {
		t.Error("Same seed should reproduce identical error metrics")
	}
}

func TestReportRendering(t *testing.T) {
	report, err := Run(Config{NumElements: 1_000, BitWidths: []int{32, 8}, Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := report.String()
	if !strings.Contains(text, "Bits") || !strings.Contains(text, "4000") {
		t.Errorf("Text table missing expected content:\n%s", text)
	}

	data, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded.Rows) != 2 || decoded.Rows[1].Bits != 8 {
		t.Errorf("Decoded rows = %+v", decoded.Rows)
	}
}

func BenchmarkRun(b *testing.B) {
	cfg := Config{NumElements: 100_000, BitWidths: []int{8, 4}, Seed: 42}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Run(cfg); err != nil {
			b.Fatal(err)
		}
	}
}
