package exi

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/flate"
)

// compressingWriter adapts klauspost/compress/flate as the byte-aligned
// sink for CodingModeCompression. EXI's own Compression align mode groups
// values into per-type channels and deflates each block independently;
// that channel-reordering machinery was never carried over here (see
// DESIGN.md), so this wraps the whole byte-aligned body stream in a
// single flate stream instead. PreCompression stays plain byte-aligned
// output, matching the EXI spec's intent that it be handed to an
// external general-purpose compressor afterward.
type compressingWriter struct {
	flate *flate.Writer
}

func newCompressingWriter(w io.Writer) (*compressingWriter, error) {
	fw, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return nil, WrapError(ErrFull, err)
	}
	return &compressingWriter{flate: fw}, nil
}

func (c *compressingWriter) Write(p []byte) (int, error) {
	n, err := c.flate.Write(p)
	if err != nil {
		return n, WrapError(ErrFull, err)
	}
	return n, nil
}

// Close flushes and closes the underlying flate stream. It does not close
// the wrapped writer.
func (c *compressingWriter) Close() error {
	if err := c.flate.Close(); err != nil {
		return WrapError(ErrFull, err)
	}
	return nil
}

// decompressingReader adapts flate as the byte-aligned source for
// CodingModeCompression on the decode side.
type decompressingReader struct {
	flate io.ReadCloser
}

func newDecompressingReader(r io.Reader) *decompressingReader {
	return &decompressingReader{flate: flate.NewReader(r)}
}

func (c *decompressingReader) Read(p []byte) (int, error) {
	n, err := c.flate.Read(p)
	if err != nil && err != io.EOF {
		return n, WrapError(ErrOOB, err)
	}
	return n, err
}

func (c *decompressingReader) Close() error {
	if err := c.flate.Close(); err != nil {
		return WrapError(ErrOOB, err)
	}
	return nil
}

// newDecompressedByteReader wraps reader with flate and returns a fresh
// bufio.Reader ready for a ByteDecoderChannel. Used once the header has
// already been parsed off reader and the coding mode is known to be
// CodingModeCompression.
func newDecompressedByteReader(reader *bufio.Reader) *bufio.Reader {
	return bufio.NewReader(newDecompressingReader(reader))
}
