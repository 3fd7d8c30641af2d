package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/qtensor-ml/qtensor/internal/qtfile"
	"github.com/qtensor-ml/qtensor/internal/quant"
)

func quantizeCmd() *cli.Command {
	var (
		inputPath  string
		outputPath string
		configPath string
		bits       int64
		rounding   string
		epsilon    float64
	)

	return &cli.Command{
		Name:  "quantize",
		Usage: "Quantize the float32 tensors of a .qt file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "input .qt file with float32 tensors",
				Required:    true,
				Destination: &inputPath,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output .qt file",
				Required:    true,
				Destination: &outputPath,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "YAML config file (flags override it)",
				Destination: &configPath,
			},
			&cli.Int64Flag{
				Name:        "bits",
				Aliases:     []string{"b"},
				Usage:       "target bit-width (1..8)",
				Value:       8,
				Destination: &bits,
			},
			&cli.StringFlag{
				Name:        "rounding",
				Usage:       "rounding mode: half-away or half-even",
				Destination: &rounding,
			},
			&cli.Float64Flag{
				Name:        "epsilon",
				Usage:       "minimum range width for constant tensors",
				Value:       1e-8,
				Destination: &epsilon,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			targetBits := int(bits)
			if configPath != "" {
				fileCfg, err := LoadConfig(configPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if !cmd.IsSet("bits") && fileCfg.Quantize.Bits != 0 {
					targetBits = fileCfg.Quantize.Bits
				}
				if !cmd.IsSet("rounding") && fileCfg.Quantize.Rounding != "" {
					rounding = fileCfg.Quantize.Rounding
				}
				if !cmd.IsSet("epsilon") && fileCfg.Quantize.Epsilon != 0 {
					epsilon = fileCfg.Quantize.Epsilon
				}
			}

			qcfg, err := quantizerConfig(targetBits, rounding, epsilon)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			q, err := quant.New(qcfg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			r, err := qtfile.Open(inputPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", inputPath, err), 1)
			}
			defer r.Close()

			w := qtfile.NewWriter()
			w.SetMetadata("quantized_bits", fmt.Sprintf("%d", targetBits))

			start := time.Now()
			var floatBytes, packedBytes int64
			for _, name := range r.TensorNames() {
				meta, err := r.TensorInfo(name)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}

				if meta.DType != qtfile.DTypeFloat32 {
					return cli.Exit(fmt.Sprintf("error: tensor %s already has dtype %s", name, meta.DType), 1)
				}

				values, err := r.ReadFloat32(name)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read %s: %v", name, err), 1)
				}

				codes, p, err := q.Quantize(values)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: quantize %s: %v", name, err), 1)
				}
				if err := w.AddQuantized(name, meta.Shape, codes, p); err != nil {
					return cli.Exit(fmt.Sprintf("error: write %s: %v", name, err), 1)
				}

				floatBytes += meta.Size
				packedBytes += int64(quant.Footprint(len(codes), p.Bits))
				fmt.Printf("%-30s %v  %d bits  scale=%.6g zero_point=%.6g\n",
					name, meta.Shape, p.Bits, p.Scale, p.ZeroPoint)
			}

			if err := w.WriteFile(outputPath); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", outputPath, err), 1)
			}

			ratio := float64(floatBytes) / float64(packedBytes)
			fmt.Printf("\nWrote %s in %s\n", outputPath, time.Since(start).Round(time.Millisecond))
			fmt.Printf("Data: %d -> %d bytes (%.2fx compression)\n", floatBytes, packedBytes, ratio)
			return nil
		},
	}
}
