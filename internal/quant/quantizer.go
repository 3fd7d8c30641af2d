package quant

import (
	"fmt"
	"math"

	"github.com/qtensor-ml/qtensor/internal/parallel"
)

// Rounding selects the tie-break rule for the round-to-nearest step.
type Rounding int

const (
	// RoundHalfAway rounds ties away from zero (math.Round). The default:
	// reproducible across platforms and the recommended policy.
	RoundHalfAway Rounding = iota

	// RoundHalfEven rounds ties to the nearest even code (math.RoundToEven).
	RoundHalfEven
)

// String returns the policy name.
func (r Rounding) String() string {
	switch r {
	case RoundHalfAway:
		return "half-away-from-zero"
	case RoundHalfEven:
		return "half-to-even"
	default:
		return "unknown"
	}
}

func (r Rounding) apply(x float64) float64 {
	if r == RoundHalfEven {
		return math.RoundToEven(x)
	}
	return math.Round(x)
}

// Config carries every policy choice of a Quantizer.
//
// All knobs are explicit construction-time values; nothing here is read
// from or written to process-wide state.
type Config struct {
	// Bits is the code width. Zero means the default of 8; valid range 1..8.
	Bits int

	// Rounding is the tie-break policy for round-to-nearest.
	Rounding Rounding

	// Epsilon floors the scale for degenerate (constant-tensor) ranges.
	// Zero means degenerate ranges fail with ErrInvalidRange instead.
	Epsilon float64

	// Strict makes Dequantize validate that every code lies in
	// [qmin, qmax] and fail with ErrInvalidCode otherwise.
	Strict bool
}

// Quantizer converts between float32 values and fixed-width unsigned codes
// using a single per-tensor affine mapping.
//
// A Quantizer is stateless after construction and safe for concurrent use:
// each call owns its inputs and outputs.
type Quantizer struct {
	cfg Config
	par parallel.Config
}

// New creates a Quantizer from an explicit Config.
func New(cfg Config) (*Quantizer, error) {
	if cfg.Bits == 0 {
		cfg.Bits = 8
	}
	if cfg.Bits < 1 || cfg.Bits > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBitWidth, cfg.Bits)
	}
	return &Quantizer{
		cfg: cfg,
		par: parallel.DefaultConfig(),
	}, nil
}

// Config returns the quantizer's configuration.
func (q *Quantizer) Config() Config {
	return q.cfg
}

// Quantize calibrates min/max over values and maps every element onto
// integer codes. It returns the codes and the derived parameters; the
// parameters must accompany the codes to dequantize them later.
//
// The mapping is monotonic non-decreasing in the input, and every output
// code lies in [0, 2^bits - 1].
func (q *Quantizer) Quantize(values []float32) ([]uint8, Params, error) {
	if len(values) == 0 {
		return nil, Params{}, ErrEmptyInput
	}

	minVal, maxVal := minMax(values)
	p, err := ComputeParams(minVal, maxVal, q.cfg.Bits, q.cfg.Epsilon)
	if err != nil {
		return nil, Params{}, err
	}

	codes, err := q.QuantizeWithParams(values, p)
	if err != nil {
		return nil, Params{}, err
	}
	return codes, p, nil
}

// QuantizeWithParams maps values onto codes using externally calibrated
// parameters (e.g. from an observer over many batches). Out-of-range values
// clip to the nearest end of the code range.
func (q *Quantizer) QuantizeWithParams(values []float32, p Params) ([]uint8, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	if p.Bits < 1 || p.Bits > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBitWidth, p.Bits)
	}
	if p.Scale <= 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidRange, p.Scale)
	}

	qmax := float64(p.Qmax())
	invScale := 1.0 / p.Scale
	rounding := q.cfg.Rounding

	codes := make([]uint8, len(values))
	parallel.ForRange(len(values), func(start, end int) {
		for i := start; i < end; i++ {
			c := rounding.apply(float64(values[i])*invScale + p.ZeroPoint)
			if c < 0 {
				c = 0
			} else if c > qmax {
				c = qmax
			}
			codes[i] = uint8(c)
		}
	}, q.par)

	return codes, nil
}

// Dequantize reconstructs float values from codes: x = scale*(q - zeroPoint).
//
// The affine map is total over all byte codes: dequantization is not a
// validation step, and codes above Qmax still map to a defined value.
// With Config.Strict, out-of-range codes fail with ErrInvalidCode instead.
func (q *Quantizer) Dequantize(codes []uint8, p Params) ([]float32, error) {
	if q.cfg.Strict {
		qmax := p.Qmax()
		for i, c := range codes {
			if c > qmax {
				return nil, fmt.Errorf("%w: code %d at index %d exceeds qmax %d", ErrInvalidCode, c, i, qmax)
			}
		}
	}

	values := make([]float32, len(codes))
	parallel.ForRange(len(codes), func(start, end int) {
		for i := start; i < end; i++ {
			values[i] = float32(p.Scale * (float64(codes[i]) - p.ZeroPoint))
		}
	}, q.par)

	return values, nil
}

// minMax returns the extrema of a non-empty slice, widened to float64.
func minMax(values []float32) (minVal, maxVal float64) {
	minVal = float64(values[0])
	maxVal = minVal
	for _, v := range values[1:] {
		f := float64(v)
		if f < minVal {
			minVal = f
		}
		if f > maxVal {
			maxVal = f
		}
	}
	return minVal, maxVal
}
