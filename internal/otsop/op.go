// Package otsop implements the closed catalog of commitment operations
// a timestamp step may apply: three hashes, two byte transforms, and
// two byte-splicing ops. See spec.md §3, §4.3.
package otsop

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/ripemd160"

	"go-ots/internal/oterr"
	"go-ots/internal/otscodec"
)

// Kind is the 1-byte tag identifying which operation a step applies.
type Kind byte

const (
	Sha1      Kind = 0x02
	Ripemd160 Kind = 0x03
	Sha256    Kind = 0x08
	Append    Kind = 0xf0
	Prepend   Kind = 0xf1
	Reverse   Kind = 0xf2
	Hexlify   Kind = 0xf3
)

// MinPayloadLen and MaxPayloadLen bound an Append/Prepend payload.
const (
	MinPayloadLen = 1
	MaxPayloadLen = 4096
)

// Op is a single commitment operation. Payload is only meaningful for
// Append and Prepend; every other Kind carries it empty.
type Op struct {
	Kind    Kind
	Payload []byte
}

// NewSha1, NewSha256 and NewRipemd160 build the hash variants.
func NewSha1() Op      { return Op{Kind: Sha1} }
func NewSha256() Op    { return Op{Kind: Sha256} }
func NewRipemd160() Op { return Op{Kind: Ripemd160} }

// NewReverse and NewHexlify build the unary byte-transform variants.
func NewReverse() Op { return Op{Kind: Reverse} }
func NewHexlify() Op { return Op{Kind: Hexlify} }

// NewAppend and NewPrepend build the byte-splicing variants. payload
// must already satisfy [MinPayloadLen, MaxPayloadLen]; Read enforces
// this on the wire, these constructors trust the caller.
func NewAppend(payload []byte) Op  { return Op{Kind: Append, Payload: payload} }
func NewPrepend(payload []byte) Op { return Op{Kind: Prepend, Payload: payload} }

// Tag returns the 1-byte wire tag for the operation.
func (o Op) Tag() byte { return byte(o.Kind) }

// Execute applies the operation to input, returning the resulting
// byte string. Every op is deterministic and total over arbitrary
// byte inputs.
func (o Op) Execute(input []byte) []byte {
	switch o.Kind {
	case Sha1:
		sum := sha1.Sum(input)
		return sum[:]
	case Sha256:
		sum := sha256.Sum256(input)
		return sum[:]
	case Ripemd160:
		h := ripemd160.New()
		h.Write(input)
		return h.Sum(nil)
	case Reverse:
		out := make([]byte, len(input))
		for i, b := range input {
			out[len(input)-1-i] = b
		}
		return out
	case Hexlify:
		return []byte(otscodec.Hex(input))
	case Append:
		out := make([]byte, 0, len(input)+len(o.Payload))
		out = append(out, input...)
		out = append(out, o.Payload...)
		return out
	case Prepend:
		out := make([]byte, 0, len(input)+len(o.Payload))
		out = append(out, o.Payload...)
		out = append(out, input...)
		return out
	default:
		panic(fmt.Sprintf("otsop: unreachable kind %#x", byte(o.Kind)))
	}
}

// Read deserializes an op, including its own tag byte, from r.
func Read(r *otscodec.Reader) (Op, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Op{}, err
	}
	return ReadWithTag(r, tag)
}

// ReadWithTag deserializes an op whose tag byte has already been
// consumed by the caller (the timestamp parser peeks a step's leading
// byte before knowing whether it's an op tag).
func ReadWithTag(r *otscodec.Reader, tag byte) (Op, error) {
	switch Kind(tag) {
	case Sha1:
		return NewSha1(), nil
	case Sha256:
		return NewSha256(), nil
	case Ripemd160:
		return NewRipemd160(), nil
	case Reverse:
		return NewReverse(), nil
	case Hexlify:
		return NewHexlify(), nil
	case Append:
		payload, err := r.ReadBytes(MinPayloadLen, MaxPayloadLen)
		if err != nil {
			return Op{}, err
		}
		return NewAppend(payload), nil
	case Prepend:
		payload, err := r.ReadBytes(MinPayloadLen, MaxPayloadLen)
		if err != nil {
			return Op{}, err
		}
		return NewPrepend(payload), nil
	default:
		return Op{}, oterr.NewBadOpTag(tag)
	}
}

// Write serializes the op, tag and payload, to w.
func (o Op) Write(w *otscodec.Writer) error {
	if err := w.WriteByte(o.Tag()); err != nil {
		return err
	}
	switch o.Kind {
	case Append, Prepend:
		return w.WriteBytes(o.Payload)
	}
	return nil
}

// String renders the op the way the original Display impl does:
// "SHA256()", "Append(aabb)", etc.
func (o Op) String() string {
	switch o.Kind {
	case Sha1:
		return "SHA1()"
	case Sha256:
		return "SHA256()"
	case Ripemd160:
		return "RIPEMD160()"
	case Reverse:
		return "Reverse()"
	case Hexlify:
		return "Hexlify()"
	case Append:
		return fmt.Sprintf("Append(%s)", otscodec.Hex(o.Payload))
	case Prepend:
		return fmt.Sprintf("Prepend(%s)", otscodec.Hex(o.Payload))
	default:
		return fmt.Sprintf("Unknown(%#x)", byte(o.Kind))
	}
}
