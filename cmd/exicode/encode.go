package main

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/go-exi/exicore/sax"
)

func newEncodeCommand() *cobra.Command {
	opts := &commonOptions{}
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode an XML document into an EXI stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := opts.buildFactory()
			if err != nil {
				return err
			}

			in, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := createOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			encoder, err := sax.NewSAXEncoder(factory)
			if err != nil {
				return err
			}

			writer := bufio.NewWriter(out)
			if err := encoder.SetWriter(writer); err != nil {
				return err
			}

			if err := encoder.Encode(bufio.NewReader(in), nil); err != nil {
				return err
			}

			return writer.Flush()
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "input XML file (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output EXI file (- for stdout)")

	return cmd
}
