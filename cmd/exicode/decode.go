package main

import (
	"bufio"
	"encoding/xml"

	"github.com/spf13/cobra"

	"github.com/go-exi/exicore/sax"
)

func newDecodeCommand() *cobra.Command {
	opts := &commonOptions{}
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an EXI stream back into an XML document",
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

			decoder, err := sax.NewSAXDecoder(factory)
			if err != nil {
				return err
			}

			writer := bufio.NewWriter(out)
			xmlEncoder := xml.NewEncoder(writer)

			if _, err := decoder.Parse(bufio.NewReader(in), xmlEncoder); err != nil {
				return err
			}

			if err := xmlEncoder.Flush(); err != nil {
				return err
			}

			return writer.Flush()
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "input EXI file (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output XML file (- for stdout)")

	return cmd
}
