package exi

import (
	"bufio"
	"io"
)

const (
	BufferCapacity int = 8
)

type BitReader struct {
	// Used buffer capacity in bits.
	capacity int

	// Internal buffer represented as an int. Only the least significant byte is used.
	// An int is used instead of a byte int-to-byte conversions in the VM.
	buffer int

	// Underlying input stream.
	reader *bufio.Reader

	// Total bits consumed so far, including bits discarded by Align.
	bitsRead int64
}

func NewBitReader(reader *bufio.Reader) *BitReader {
	return &BitReader{
		capacity: 0,
		buffer:   0,
		reader:   reader,
	}
}

// BitPos returns the exact bit offset consumed so far, accounting for any
// bits still cached in the internal buffer.
func (br *BitReader) BitPos() int64 {
	return br.bitsRead
}

/**
 * Resets this instance and sets a new underlying input stream. This method
 * allows instances of this class to be re-used. The resulting state after
 * calling this method is identical to that of a newly created instance.
 */
func (br *BitReader) SetReader(reader *bufio.Reader) {
	br.reader = reader
	br.buffer = 0
	br.capacity = 0
}

func (br *BitReader) readDirectByte() (int, error) {
	b, err := br.reader.ReadByte()
	if err != nil {
		return -1, WrapError(ErrOOB, err)
	}
	return int(b), nil
}

/**
 * If buffer is empty, read byte from underlying stream.
 */
func (br *BitReader) readBuffer() error {
	b, err := br.readDirectByte()
	if err != nil {
		return err
	}
	br.buffer = b
	br.capacity = BufferCapacity
	return nil
}

/**
 * Discard any bits currently in the buffer to byte-align stream
 */
func (br *BitReader) Align() error {
	if br.capacity != 0 {
		br.bitsRead += int64(br.capacity)
		br.capacity = 0
	}
	return nil
}

/**
 * Returns current byte buffer without actually reading data
 */
func (br *BitReader) LookAhead() (int, error) {
	if br.capacity == 0 {
		if err := br.readBuffer(); err != nil {
			return -1, err
		}
	}
	return br.buffer, nil
}

/**
 * Skip n bytes
 */
func (br *BitReader) Skip(n int64) error {
	if br.capacity == 0 {
		// algined
		for n != 0 {
			skipped, err := br.reader.Discard(int(n))
			if err != nil {
				return WrapError(ErrOOB, err)
			}
			br.bitsRead += int64(skipped) * 8
			n -= int64(skipped)
		}
	} else {
		// not aligned: consume whole octets through the bit layer
		for i := int64(0); i < n; i++ {
			if _, err := br.ReadBits(8); err != nil {
				return err
			}
		}
	}

	return nil
}

/**
 * Return next bit from underlying stream.
 */
func (br *BitReader) ReadBit() (int, error) {
	if br.capacity == 0 {
		if err := br.readBuffer(); err != nil {
			return -1, err
		}
	}
	br.capacity--
	br.bitsRead++
	return (br.buffer >> br.capacity) & 0x1, nil
}

/**
 * Read the next n bits and return the result as an integer.
 */
func (br *BitReader) ReadBits(n int) (int, error) {
	if n <= 0 {
		return -1, NewError(ErrInvalidConfig, "number of bits to read must be positive")
	}

	var result int
	var err error
	requested := n

	if n <= br.capacity {
		// buffer already holds all necessary bits
		br.capacity -= n
		result = (br.buffer >> br.capacity) & (0xff >> (BufferCapacity - n))
	} else if br.capacity == 0 && n == BufferCapacity {
		// possible to read direct byte, nothing else to do
		result, err = br.readDirectByte()
		if err != nil {
			return -1, err
		}
	} else {
		// get as many bits from buffer as possible
		result = br.buffer & (0xff >> (BufferCapacity - br.capacity))
		n -= br.capacity
		br.capacity = 0

		// possibly read whole bytes
		for n > 7 {
			if br.capacity == 0 {
				if err := br.readBuffer(); err != nil {
					return -1, err
				}
			}

			result = (result << BufferCapacity) | br.buffer
			n -= BufferCapacity
			br.capacity = 0
		}

		// read the rest of the bits
		if n > 0 {
			if br.capacity == 0 {
				if err := br.readBuffer(); err != nil {
					return -1, err
				}
			}
			br.capacity = BufferCapacity - n
			result = (result << n) | (br.buffer >> br.capacity)
		}
	}

	br.bitsRead += int64(requested)
	return result, nil
}

/**
 * Reads one byte (8 bits) of data from the input stream
 */
func (br *BitReader) Read() (int, error) {
	// possible to read direct byte?
	if br.capacity == 0 {
		b, err := br.readDirectByte()
		if err != nil {
			return -1, err
		}
		br.bitsRead += 8
		return b, nil
	} else {
		return br.ReadBits(BufferCapacity)
	}
}

/**
 * Reads length bytes of data from the input stream into buffer
 */
func (r *BitReader) ReadToBuffer(buffer []byte, offset, length int) error {
	if length < 0 {
		return NewError(ErrInvalidConfig, "length must be non-negative")
	} else if length == 0 {
		return nil
	}

	if r.capacity == 0 {
		// byte-aligned --> read all bytes at byte-border (at once?)
		readBytes := 0
		for readBytes < length {
			br, err := r.reader.Read(buffer[readBytes:length])
			if err == io.EOF {
				return NewErrorAt(ErrOOB, "premature end of stream while reading data", r.bitsRead)
			}
			if err != nil {
				return WrapError(ErrOOB, err)
			}
			readBytes += br
		}
	} else {
		shift := BufferCapacity - r.capacity

		for i := range length {
			nextByte, err := r.readDirectByte()
			if err != nil {
				return err
			}
			buffer[i] = byte((r.buffer << shift) | (nextByte >> r.capacity))
			r.buffer = nextByte
		}
	}

	r.bitsRead += int64(length) * 8
	return nil
}

const BitsInByte = 8

// BitWriter packs bits MSB-first into octets: buffer accumulates the
// current octet, capacity counts the bits it still has room for.
type BitWriter struct {
	buffer   int
	capacity int
	writer   bufio.Writer
	len      int
}

func NewBitWriter(writer bufio.Writer) *BitWriter {
	return &BitWriter{
		capacity: BitsInByte,
		writer:   writer,
	}
}

// GetUnderlyingWriter exposes the buffered output stream beneath the
// bit layer.
func (bw *BitWriter) GetUnderlyingWriter() *bufio.Writer {
	return &bw.writer
}

func (bw *BitWriter) GetLength() int {
	return bw.len
}

func (bw *BitWriter) flushBuffer() error {
	if bw.capacity == 0 {
		if err := bw.writer.WriteByte(byte(bw.buffer & 0xFF)); err != nil {
			return WrapError(ErrFull, err)
		}
		bw.capacity = BitsInByte
		bw.buffer = 0
		bw.len++
	}

	return nil
}

func (bw *BitWriter) IsByteAligned() bool {
	return bw.capacity == BitsInByte
}

func (bw *BitWriter) GetBitsInByffer() int {
	return BitsInByte - bw.capacity
}

func (bw *BitWriter) Flush() error {
	if err := bw.Align(); err != nil {
		return err
	}
	if err := bw.writer.Flush(); err != nil {
		return WrapError(ErrFull, err)
	}
	return nil
}

func (bw *BitWriter) Align() error {
	if bw.capacity < BitsInByte {
		if err := bw.writer.WriteByte(byte((bw.buffer << bw.capacity) & 0xFF)); err != nil {
			return WrapError(ErrFull, err)
		}
		bw.capacity = BitsInByte
		bw.buffer = 0
		bw.len++
	}

	return nil
}

func (bw *BitWriter) WriteBit0() error {
	bw.buffer <<= 1
	bw.capacity--
	return bw.flushBuffer()
}

func (bw *BitWriter) WriteBit1() error {
	bw.buffer = (bw.buffer << 1) | 0x1
	bw.capacity--
	return bw.flushBuffer()
}

func (bw *BitWriter) WriteBit(b int) error {
	bw.buffer = (bw.buffer << 1) | (b & 0x1)
	bw.capacity--
	return bw.flushBuffer()
}

func (bw *BitWriter) WriteBits(b, n int) error {
	if n <= bw.capacity {
		// all bits fit into the current buffer
		bw.buffer = (bw.buffer << n) | (b & (0xFF >> (BitsInByte - n)))
		bw.capacity -= n
		if bw.capacity == 0 {
			if err := bw.writer.WriteByte(byte(bw.buffer & 0xFF)); err != nil {
				return WrapError(ErrFull, err)
			}
			bw.capacity = BitsInByte
			bw.len++
		}
	} else {
		// fill as many bits into buffer as possible
		bw.buffer = (bw.buffer << bw.capacity) | (int(uint32(b)>>(n-bw.capacity)) & (0xFF >> (BitsInByte - bw.capacity)))
		n -= bw.capacity
		if err := bw.writer.WriteByte(byte(bw.buffer & 0xFF)); err != nil {
			return WrapError(ErrFull, err)
		}
		bw.len++

		// possibly write whole bytes
		for n >= 8 {
			n -= 8
			if err := bw.writer.WriteByte(byte(int(uint32(b) >> n))); err != nil {
				return WrapError(ErrFull, err)
			}
			bw.len++
		}

		// put the rest of bits into the buffer
		bw.buffer = b // Note: the high bits will be shifted out during further filling
		bw.capacity = BitsInByte - n
	}

	return nil
}

func (bw *BitWriter) writeDirectByte(b int) error {
	if err := bw.writer.WriteByte(byte(b & 0xFF)); err != nil {
		return WrapError(ErrFull, err)
	}
	bw.len++
	return nil
}

func (bw *BitWriter) writeDirectBytes(b []byte, offset, length int) error {
	if _, err := bw.writer.Write(b[offset : offset+length]); err != nil {
		return WrapError(ErrFull, err)
	}
	bw.len += length
	return nil
}

func (bw *BitWriter) Write(b int) error {
	return bw.WriteBits(b, 8)
}

// BitPos returns the exact bit offset written so far, including any bits
// still cached in the internal buffer awaiting a full byte.
func (bw *BitWriter) BitPos() int64 {
	return int64(bw.len)*8 + int64(bw.GetBitsInByffer())
}
