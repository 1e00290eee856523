// Package otsattest implements the closed catalog of attestation
// kinds a timestamp leaf may carry: a Bitcoin block height, a pending
// calendar URI, or an opaque unknown payload preserved verbatim. See
// spec.md §3, §4.4.
package otsattest

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"go-ots/internal/oterr"
	"go-ots/internal/otscodec"
	"go-ots/internal/otslog"
)

// TagSize is the byte length of an attestation's type tag.
const TagSize = 8

// MaxURILen bounds a pending attestation's URI.
const MaxURILen = 1000

// BitcoinTag and PendingTag are the two type tags with defined
// semantics; any other 8-byte tag is preserved as Unknown.
var (
	BitcoinTag = [TagSize]byte{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	PendingTag = [TagSize]byte{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
)

// Kind discriminates the three attestation variants.
type Kind int

const (
	Bitcoin Kind = iota
	Pending
	Unknown
)

// Attestation is a claim that some digest existed at some time. Only
// the fields relevant to Kind are populated.
type Attestation struct {
	Kind Kind

	Height uint64 // Bitcoin

	URI string // Pending

	Tag  [TagSize]byte // Unknown
	Data []byte        // Unknown, raw post-length-prefix payload bytes
}

// NewBitcoin builds a Bitcoin block attestation.
func NewBitcoin(height uint64) Attestation {
	return Attestation{Kind: Bitcoin, Height: height}
}

// NewPending builds a pending calendar attestation. uri is trusted to
// already satisfy the charset rule; Read enforces it on the wire.
func NewPending(uri string) Attestation {
	return Attestation{Kind: Pending, URI: uri}
}

// NewUnknown builds an attestation of unrecognized type, preserving
// its tag and opaque payload verbatim.
func NewUnknown(tag [TagSize]byte, data []byte) Attestation {
	return Attestation{Kind: Unknown, Tag: tag, Data: data}
}

// isURIChar reports whether ch is in the restricted charset permitted
// in a pending attestation's URI: a-z, A-Z, 0-9, '.', '-', '_', '/', ':'.
func isURIChar(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == '.' || ch == '-' || ch == '_' || ch == '/' || ch == ':':
		return true
	default:
		return false
	}
}

// Read deserializes an attestation: an 8-byte type tag followed by a
// length-prefixed opaque payload, then dispatches on the tag.
func Read(r *otscodec.Reader) (Attestation, error) {
	tagBytes, err := r.ReadFixedBytes(TagSize)
	if err != nil {
		return Attestation{}, err
	}
	var tag [TagSize]byte
	copy(tag[:], tagBytes)

	// No declared upper bound at this layer; math.MaxInt is as close to
	// "unbounded" as ReadBytes' signature allows, per spec §4.4 step 2.
	payload, err := r.ReadBytes(0, math.MaxInt)
	if err != nil {
		return Attestation{}, err
	}

	switch tag {
	case BitcoinTag:
		pr := otscodec.NewReader(bytes.NewReader(payload))
		height, err := pr.ReadUint()
		if err != nil {
			return Attestation{}, err
		}
		otslog.Debugf("bitcoin attestation: height %d", height)
		return NewBitcoin(height), nil
	case PendingTag:
		if len(payload) > MaxURILen {
			return Attestation{}, oterr.NewBadLength(0, MaxURILen, len(payload))
		}
		if !utf8.Valid(payload) {
			return Attestation{}, oterr.NewUtf8(fmt.Errorf("invalid utf-8 in pending URI"))
		}
		uri := string(payload)
		for _, ch := range uri {
			if !isURIChar(ch) {
				return Attestation{}, oterr.NewInvalidUriChar(ch)
			}
		}
		otslog.Debugf("pending attestation: uri %q", uri)
		return NewPending(uri), nil
	default:
		otslog.Debugf("unknown attestation type %s", otscodec.Hex(tag[:]))
		return NewUnknown(tag, payload), nil
	}
}

// Write serializes the attestation: its 8-byte tag, then its payload
// framed uniformly via WriteBytes for all three variants (see spec.md
// §9, "Unknown attestation round-trip").
func (a Attestation) Write(w *otscodec.Writer) error {
	switch a.Kind {
	case Bitcoin:
		if err := w.WriteFixedBytes(BitcoinTag[:]); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := otscodec.NewWriter(&buf).WriteUint(a.Height); err != nil {
			return err
		}
		return w.WriteBytes(buf.Bytes())
	case Pending:
		if err := w.WriteFixedBytes(PendingTag[:]); err != nil {
			return err
		}
		return w.WriteBytes([]byte(a.URI))
	case Unknown:
		if err := w.WriteFixedBytes(a.Tag[:]); err != nil {
			return err
		}
		return w.WriteBytes(a.Data)
	default:
		panic(fmt.Sprintf("otsattest: unreachable kind %d", a.Kind))
	}
}

// String renders the attestation the way the original Display impl
// does: "Bitcoin block N", "Pending: update URI U", or
// "unknown attestation type TAG: DATA".
func (a Attestation) String() string {
	switch a.Kind {
	case Bitcoin:
		return fmt.Sprintf("Bitcoin block %d", a.Height)
	case Pending:
		return fmt.Sprintf("Pending: update URI %s", a.URI)
	case Unknown:
		return fmt.Sprintf("unknown attestation type %s: %s", otscodec.Hex(a.Tag[:]), otscodec.Hex(a.Data))
	default:
		return "invalid attestation"
	}
}
