package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/qtensor-ml/qtensor/internal/qtfile"
)

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of a .qt file",
		ArgsUsage: "<file.qt>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the header as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("error: expected exactly one .qt file argument", 1)
			}
			path := cmd.Args().First()

			// Header inspection should work on files with damaged data.
			r, err := qtfile.OpenWithOptions(path, qtfile.ReaderOptions{SkipChecksumValidation: true})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
			}
			defer r.Close()

			header := r.Header()
			if asJSON {
				data, err := json.MarshalIndent(header, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Format:  v%d (written by qtensor %s)\n", header.FormatVersion, header.WriterVersion)
			fmt.Printf("Created: %s\n", header.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
			for k, v := range header.Metadata {
				fmt.Printf("Meta:    %s = %s\n", k, v)
			}
			fmt.Println()

			fmt.Printf("%-30s %-10s %-16s %6s %12s %14s\n",
				"Tensor", "DType", "Shape", "Bits", "Bytes", "Scale")
			for _, meta := range header.Tensors {
				if meta.DType == qtfile.DTypeQuant {
					fmt.Printf("%-30s %-10s %-16v %6d %12d %14.6g\n",
						meta.Name, meta.DType, meta.Shape, meta.Bits, meta.Size, meta.Scale)
				} else {
					fmt.Printf("%-30s %-10s %-16v %6s %12d %14s\n",
						meta.Name, meta.DType, meta.Shape, "-", meta.Size, "-")
				}
			}
			return nil
		},
	}
}
