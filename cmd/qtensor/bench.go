package main

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/qtensor-ml/qtensor/internal/bench"
)

func benchCmd() *cli.Command {
	var (
		configPath string
		elements   int64
		bitsFlag   string
		seed       int64
		asJSON     bool
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark storage and accuracy across bit-widths",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "YAML config file (flags override it)",
				Destination: &configPath,
			},
			&cli.Int64Flag{
				Name:        "elements",
				Aliases:     []string{"n"},
				Usage:       "number of synthetic values",
				Value:       1_000_000,
				Destination: &elements,
			},
			&cli.StringFlag{
				Name:        "bits",
				Aliases:     []string{"b"},
				Usage:       "comma-separated bit-widths",
				Value:       "32,16,8,4,3,2",
				Destination: &bitsFlag,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed",
				Value:       42,
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := bench.DefaultConfig()
			cfg.NumElements = int(elements)
			cfg.Seed = seed

			bitWidths, err := parseBitWidths(bitsFlag)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			cfg.BitWidths = bitWidths

			if configPath != "" {
				fileCfg, err := LoadConfig(configPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if !cmd.IsSet("elements") && fileCfg.Bench.NumElements != 0 {
					cfg.NumElements = fileCfg.Bench.NumElements
				}
				if !cmd.IsSet("bits") && len(fileCfg.Bench.BitWidths) > 0 {
					cfg.BitWidths = fileCfg.Bench.BitWidths
				}
				if !cmd.IsSet("seed") && fileCfg.Bench.Seed != 0 {
					cfg.Seed = fileCfg.Bench.Seed
				}
			}

			report, err := bench.Run(cfg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if asJSON {
				data, err := report.JSON()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println("=== QTensor Benchmark ===")
			fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Println()
			fmt.Print(report.String())
			return nil
		},
	}
}

func parseBitWidths(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	bits := make([]int, 0, len(parts))
	for _, part := range parts {
		b, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid bit-width %q", part)
		}
		bits = append(bits, b)
	}
	return bits, nil
}
