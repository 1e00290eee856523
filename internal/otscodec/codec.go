// Package otscodec implements the byte-exact, bidirectional codec
// primitives shared by every wire-level type in go-ots: single bytes,
// fixed byte runs, length-prefixed byte runs, and the 7-bit
// little-endian continuation-encoded unsigned integer ("uint"). See
// spec.md §4.1.
package otscodec

import (
	"io"

	"go-ots/internal/oterr"
	"go-ots/internal/otslog"
)

// Magic is the fixed 31-byte prefix every detached timestamp file
// begins with.
var Magic = []byte("\x00OpenTimestamps\x00\x00Proof\x00\xbf\x89\xe2\xe8\x84\xe8\x92\x94")

// Version is the only envelope version this library understands.
const Version uint64 = 1

// Reader deserializes the primitives of the wire format from an
// underlying byte stream.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for use as an ots wire-format deserializer.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadByte reads a single byte, failing with Io if the stream ends
// prematurely.
func (d *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, oterr.NewIo(err)
	}
	return buf[0], nil
}

// ReadFixedBytes reads exactly n bytes, failing with Io if short.
func (d *Reader) ReadFixedBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, oterr.NewIo(err)
	}
	return buf, nil
}

// ReadUint reads a 7-bit little-endian base-128 continuation-encoded
// unsigned integer: bytes are read until one with its MSB clear; the
// low 7 bits of each byte contribute at shift positions 0, 7, 14, ...
func (d *Reader) ReadUint() (uint64, error) {
	var ret uint64
	var shift uint
	for {
		b, err := d.ReadByte()
		if err != nil {
			return 0, err
		}
		ret |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return ret, nil
}

// ReadBytes reads a length-prefixed byte sequence: a uint length
// bounded to [min, max], followed by that many raw bytes.
func (d *Reader) ReadBytes(min, max int) ([]byte, error) {
	n, err := d.ReadUint()
	if err != nil {
		return nil, err
	}
	if n < uint64(min) || n > uint64(max) {
		return nil, oterr.NewBadLength(min, max, int(n))
	}
	return d.ReadFixedBytes(int(n))
}

// CheckEOF succeeds iff no bytes remain in the stream.
func (d *Reader) CheckEOF() error {
	var buf [1]byte
	_, err := d.r.Read(buf[:])
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return oterr.NewIo(err)
	}
	return oterr.NewTrailingBytes()
}

// ReadMagic reads and validates the fixed 31-byte file magic.
func (d *Reader) ReadMagic() error {
	got, err := d.ReadFixedBytes(len(Magic))
	if err != nil {
		return err
	}
	for i := range Magic {
		if got[i] != Magic[i] {
			otslog.Debugf("bad magic: got %x", got)
			return oterr.NewBadMagic(got)
		}
	}
	otslog.Debugf("magic ok")
	return nil
}

// ReadVersion reads and validates the envelope version.
func (d *Reader) ReadVersion() error {
	v, err := d.ReadUint()
	if err != nil {
		return err
	}
	if v != Version {
		return oterr.NewBadVersion(v)
	}
	otslog.Debugf("version ok: %d", v)
	return nil
}

// Writer serializes the primitives of the wire format to an
// underlying byte stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for use as an ots wire-format serializer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByte writes a single byte.
func (s *Writer) WriteByte(b byte) error {
	_, err := s.w.Write([]byte{b})
	if err != nil {
		return oterr.NewIo(err)
	}
	return nil
}

// WriteFixedBytes writes data verbatim.
func (s *Writer) WriteFixedBytes(data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return oterr.NewIo(err)
	}
	return nil
}

// WriteUint writes n as a 7-bit little-endian base-128
// continuation-encoded unsigned integer. Zero is always a single
// 0x00 byte; any non-final byte has its MSB set.
func (s *Writer) WriteUint(n uint64) error {
	if n == 0 {
		return s.WriteByte(0x00)
	}
	for n > 0 {
		b := byte(n & 0x7f)
		n >>= 7
		if n > 0 {
			b |= 0x80
		}
		if err := s.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// WriteBytes writes data as a length-prefixed byte sequence.
func (s *Writer) WriteBytes(data []byte) error {
	if err := s.WriteUint(uint64(len(data))); err != nil {
		return err
	}
	return s.WriteFixedBytes(data)
}

// WriteMagic writes the fixed file magic.
func (s *Writer) WriteMagic() error {
	return s.WriteFixedBytes(Magic)
}

// WriteVersion writes the envelope version.
func (s *Writer) WriteVersion() error {
	return s.WriteUint(Version)
}
