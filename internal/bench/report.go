// Package bench measures the storage/accuracy trade-off of affine
// quantization across bit-widths on synthetic data.
package bench

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

// Config controls a benchmark run.
type Config struct {
	NumElements int   `json:"num_elements"`
	BitWidths   []int `json:"bit_widths"`
	Seed        int64 `json:"seed"`
}

// DefaultConfig benchmarks one million normally distributed values across
// the usual bit-width ladder. The 32- and 16-bit rows are storage
// baselines; rows at 8 bits and below run the quantizer.
func DefaultConfig() Config {
	return Config{
		NumElements: 1_000_000,
		BitWidths:   []int{32, 16, 8, 4, 3, 2},
		Seed:        42,
	}
}

// Row is the result for one bit-width.
type Row struct {
	Bits             int           `json:"bits"`
	FootprintBytes   int           `json:"footprint_bytes"`
	CompressionRatio float64       `json:"compression_ratio"`
	QuantizeTime     time.Duration `json:"quantize_ns,omitempty"`
	DequantizeTime   time.Duration `json:"dequantize_ns,omitempty"`
	MaxAbsError      float64       `json:"max_abs_error,omitempty"`
	MeanAbsError     float64       `json:"mean_abs_error,omitempty"`
	Measured         bool          `json:"measured"`
}

// Report is the full result of one benchmark run.
type Report struct {
	Config Config `json:"config"`
	Rows   []Row  `json:"rows"`
}

// Run benchmarks quantization of cfg.NumElements random normal values at
// every configured bit-width. Bit-widths above 8 produce storage-only rows.
func Run(cfg Config) (*Report, error) {
	if cfg.NumElements <= 0 {
		return nil, fmt.Errorf("bench: num_elements must be positive, got %d", cfg.NumElements)
	}
	if len(cfg.BitWidths) == 0 {
		return nil, fmt.Errorf("bench: no bit-widths configured")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	values := make([]float32, cfg.NumElements)
	for i := range values {
		values[i] = float32(rng.NormFloat64())
	}

	report := &Report{Config: cfg, Rows: make([]Row, 0, len(cfg.BitWidths))}
	for _, bits := range cfg.BitWidths {
		if bits <= 0 || bits > 32 {
			return nil, fmt.Errorf("bench: bit-width %d out of range 1..32", bits)
		}

		row := Row{
			Bits:             bits,
			FootprintBytes:   quant.Footprint(cfg.NumElements, bits),
			CompressionRatio: quant.CompressionRatio(cfg.NumElements, bits),
		}

		if bits <= 8 {
			measured, err := measure(values, bits)
			if err != nil {
				return nil, err
			}
			row.QuantizeTime = measured.QuantizeTime
			row.DequantizeTime = measured.DequantizeTime
			row.MaxAbsError = measured.MaxAbsError
			row.MeanAbsError = measured.MeanAbsError
			row.Measured = true
		}

		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func measure(values []float32, bits int) (Row, error) {
	q, err := quant.New(quant.Config{Bits: bits})
	if err != nil {
		return Row{}, err
	}

	start := time.Now()
	codes, p, err := q.Quantize(values)
	if err != nil {
		return Row{}, err
	}
	quantizeTime := time.Since(start)

	start = time.Now()
	restored, err := q.Dequantize(codes, p)
	if err != nil {
		return Row{}, err
	}
	dequantizeTime := time.Since(start)

	absErr := make([]float64, len(values))
	maxErr := 0.0
	for i := range values {
		e := math.Abs(float64(values[i]) - float64(restored[i]))
		absErr[i] = e
		if e > maxErr {
			maxErr = e
		}
	}

	return Row{
		QuantizeTime:   quantizeTime,
		DequantizeTime: dequantizeTime,
		MaxAbsError:    maxErr,
		MeanAbsError:   stat.Mean(absErr, nil),
	}, nil
}

// String renders the report as a fixed-width text table.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "elements: %d, seed: %d\n\n", r.Config.NumElements, r.Config.Seed)
	fmt.Fprintf(&b, "%-6s %12s %8s %12s %12s %12s %12s\n",
		"Bits", "Bytes", "Ratio", "Quantize", "Dequantize", "MaxErr", "MeanErr")

	for _, row := range r.Rows {
		if !row.Measured {
			fmt.Fprintf(&b, "%-6d %12d %7.2fx %12s %12s %12s %12s\n",
				row.Bits, row.FootprintBytes, row.CompressionRatio, "-", "-", "-", "-")
			continue
		}
		fmt.Fprintf(&b, "%-6d %12d %7.2fx %12s %12s %12.6f %12.6f\n",
			row.Bits, row.FootprintBytes, row.CompressionRatio,
			row.QuantizeTime.Round(time.Microsecond),
			row.DequantizeTime.Round(time.Microsecond),
			row.MaxAbsError, row.MeanAbsError)
	}
	return b.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
