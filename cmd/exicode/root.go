package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-exi/exicore/exi"
)

type commonOptions struct {
	align                  string
	strict                 bool
	preserveComments       bool
	preservePIs            bool
	preserveDTDs           bool
	preservePrefixes       bool
	preserveLexicalValues  bool
	fragment               bool
	blockSize              int
	valueMaxLength         int
	valuePartitionCapacity int
	diagnostics            bool
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "exicode",
		Short: "Encode and decode EXI (Efficient XML Interchange) streams",
	}

	root.AddCommand(newEncodeCommand())
	root.AddCommand(newDecodeCommand())

	return root
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.align, "align", "bit-packed", "alignment: bit-packed, byte-packed, pre-compression, compression")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "use strict fidelity options")
	cmd.Flags().BoolVar(&opts.preserveComments, "preserve-comments", false, "preserve XML comments")
	cmd.Flags().BoolVar(&opts.preservePIs, "preserve-pis", false, "preserve processing instructions")
	cmd.Flags().BoolVar(&opts.preserveDTDs, "preserve-dtds", false, "preserve DTDs")
	cmd.Flags().BoolVar(&opts.preservePrefixes, "preserve-prefixes", false, "preserve namespace prefixes")
	cmd.Flags().BoolVar(&opts.preserveLexicalValues, "preserve-lexical-values", false, "preserve the lexical form of values")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "treat the document as an EXI fragment")
	cmd.Flags().IntVar(&opts.blockSize, "block-size", 1000000, "number of values per compression block")
	cmd.Flags().IntVar(&opts.valueMaxLength, "value-max-length", -1, "maximum string length kept in the value partition (-1 for unbounded)")
	cmd.Flags().IntVar(&opts.valuePartitionCapacity, "value-partition-capacity", -1, "maximum number of values kept in the value partition (-1 for unbounded)")
	cmd.Flags().BoolVar(&opts.diagnostics, "diagnostics", false, "log codec diagnostics to stderr")
}

func (o *commonOptions) codingMode() (exi.CodingMode, error) {
	switch o.align {
	case "bit-packed":
		return exi.CodingModeBitPacked, nil
	case "byte-packed":
		return exi.CodingModeBytePacked, nil
	case "pre-compression":
		return exi.CodingModePreCompression, nil
	case "compression":
		return exi.CodingModeCompression, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", o.align)
	}
}

func (o *commonOptions) buildFactory() (exi.EXIFactory, error) {
	mode, err := o.codingMode()
	if err != nil {
		return nil, err
	}

	factory := exi.NewDefaultEXIFactory()
	factory.SetCodingMode(mode)
	factory.SetFragment(o.fragment)
	factory.SetBlockSize(o.blockSize)
	factory.SetValueMaxLength(o.valueMaxLength)
	factory.SetValuePartitionCapacity(o.valuePartitionCapacity)

	fidelity := exi.NewDefaultFidelityOptions()
	if o.strict {
		fidelity = exi.NewStrictFidelityOptions()
	}
	for _, f := range []struct {
		key string
		set bool
	}{
		{exi.FeatureComment, o.preserveComments},
		{exi.FeaturePI, o.preservePIs},
		{exi.FeatureDTD, o.preserveDTDs},
		{exi.FeaturePrefix, o.preservePrefixes},
		{exi.FeatureLexicalValue, o.preserveLexicalValues},
	} {
		if f.set {
			if err := fidelity.SetFidelity(f.key, true); err != nil {
				return nil, err
			}
		}
	}
	factory.SetFidelityOptions(fidelity)

	if o.diagnostics {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		factory.SetDiagnostics(exi.NewZerologDiagnostics(logger))
	}

	return factory, nil
}

func openInput(path string) (*os.File, error) {
	if path == "-" || path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func createOutput(path string) (*os.File, error) {
	if path == "-" || path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
