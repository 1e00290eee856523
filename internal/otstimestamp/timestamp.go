// Package otstimestamp implements the recursive commitment-tree
// parser, evaluator, serializer and pretty-printer, plus the
// detached-file envelope that wraps it. See spec.md §3, §4.5, §6.
package otstimestamp

import (
	"fmt"
	"io"
	"strings"

	"go-ots/internal/oterr"
	"go-ots/internal/otsattest"
	"go-ots/internal/otscodec"
	"go-ots/internal/otslog"
	"go-ots/internal/otsop"
)

// RecursionLimit bounds the nesting depth of ops/forks a parse may
// descend, defending against adversarial inputs that chain operations
// indefinitely.
const RecursionLimit = 256

// StepKind discriminates the three step variants.
type StepKind int

const (
	KindOp StepKind = iota
	KindFork
	KindAttestation
)

// Step is one node of the commitment tree: an Op with exactly one
// child, a Fork with two or more children carrying the same input
// digest, or an Attestation leaf with no children. Output is the
// digest that flows out of this node.
type Step struct {
	Kind StepKind

	Op          otsop.Op              // KindOp
	Attestation otsattest.Attestation // KindAttestation

	Output []byte
	Next   []Step
}

// deserializeStepRecurse parses one step subtree rooted at
// inputDigest. tag, if non-nil, is a dispatch byte the caller already
// consumed from the stream (used when a fork peeks its next child's
// leading byte). depth is the recursion budget remaining.
func deserializeStepRecurse(r *otscodec.Reader, inputDigest []byte, tag *byte, depth int) (Step, error) {
	if depth == 0 {
		return Step{}, oterr.NewStackOverflow()
	}

	var t byte
	if tag != nil {
		t = *tag
	} else {
		var err error
		t, err = r.ReadByte()
		if err != nil {
			return Step{}, err
		}
	}

	switch t {
	case 0x00:
		attest, err := otsattest.Read(r)
		if err != nil {
			return Step{}, err
		}
		otslog.Tracef("[%3d] attestation: %s", depth, attest)
		return Step{Kind: KindAttestation, Attestation: attest, Output: inputDigest}, nil

	case 0xff:
		var children []Step
		nextTag := byte(0xff)
		for nextTag == 0xff {
			otslog.Tracef("[%3d] forking..", depth)
			child, err := deserializeStepRecurse(r, inputDigest, nil, depth-1)
			if err != nil {
				return Step{}, err
			}
			children = append(children, child)
			nextTag, err = r.ReadByte()
			if err != nil {
				return Step{}, err
			}
		}
		last, err := deserializeStepRecurse(r, inputDigest, &nextTag, depth-1)
		if err != nil {
			return Step{}, err
		}
		children = append(children, last)
		return Step{Kind: KindFork, Output: inputDigest, Next: children}, nil

	default:
		op, err := otsop.ReadWithTag(r, t)
		if err != nil {
			return Step{}, err
		}
		output := op.Execute(inputDigest)
		otslog.Tracef("[%3d] tag %s maps %s to %s", depth, op, otscodec.Hex(inputDigest), otscodec.Hex(output))
		next, err := deserializeStepRecurse(r, output, nil, depth-1)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: KindOp, Op: op, Output: output, Next: []Step{next}}, nil
	}
}

// Serialize writes the step subtree back to w in pre-order, the
// inverse of deserializeStepRecurse. Re-serializing a parsed tree
// yields the exact bytes it was parsed from when every uint in the
// stream is minimally encoded and every Bitcoin attestation payload
// holds only its height; a non-minimal uint is written back in minimal
// form, and payload bytes after a Bitcoin height are not kept.
func (s Step) Serialize(w *otscodec.Writer) error {
	switch s.Kind {
	case KindOp:
		if err := s.Op.Write(w); err != nil {
			return err
		}
		return s.Next[0].Serialize(w)
	case KindAttestation:
		if err := w.WriteByte(0x00); err != nil {
			return err
		}
		return s.Attestation.Write(w)
	case KindFork:
		// A fork built by the parser always has at least two children
		// (see spec.md §9, "fork with a single branch"): the recursive
		// descent above never exits the 0xff loop before parsing a
		// second, terminating child.
		for i, child := range s.Next {
			if i < len(s.Next)-1 {
				if err := w.WriteByte(0xff); err != nil {
					return err
				}
			}
			if err := child.Serialize(w); err != nil {
				return err
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("otstimestamp: unreachable step kind %d", s.Kind))
	}
}

func writeIndent(sb *strings.Builder, depth int, firstLine bool) {
	if depth == 0 {
		return
	}
	for i := 0; i < depth-1; i++ {
		sb.WriteString("    ")
	}
	if firstLine {
		sb.WriteString("--->")
	} else {
		sb.WriteString("    ")
	}
}

// writeString renders the step and its descendants in the original
// library's indentation scheme: a "--->" marker on a subtree's first
// line, 4-space continuation indent, "(fork N ways)" headers, and
// "execute OP" / " result HEX" pairs for op nodes.
func (s Step) writeString(sb *strings.Builder, depth int, firstLine bool) {
	switch s.Kind {
	case KindFork:
		writeIndent(sb, depth, firstLine)
		fmt.Fprintf(sb, "(fork %d ways)\n", len(s.Next))
		for _, child := range s.Next {
			child.writeString(sb, depth+1, true)
		}
	case KindOp:
		writeIndent(sb, depth, firstLine)
		fmt.Fprintf(sb, "execute %s\n", s.Op)
		writeIndent(sb, depth, false)
		fmt.Fprintf(sb, " result %s\n", otscodec.Hex(s.Output))
		s.Next[0].writeString(sb, depth, false)
	case KindAttestation:
		writeIndent(sb, depth, firstLine)
		fmt.Fprintf(sb, "result attested by %s\n", s.Attestation)
	}
}

// DigestType identifies the hash family used to produce the document
// digest a DetachedTimestampFile's tree starts from.
type DigestType int

const (
	Sha1 DigestType = iota
	Sha256
	Ripemd160
)

// DigestTypeFromTag interprets a one-byte envelope tag as a DigestType.
func DigestTypeFromTag(tag byte) (DigestType, error) {
	switch tag {
	case 0x02:
		return Sha1, nil
	case 0x08:
		return Sha256, nil
	case 0x03:
		return Ripemd160, nil
	default:
		return 0, oterr.NewBadDigestTag(tag)
	}
}

// Tag returns the one-byte envelope tag for d.
func (d DigestType) Tag() byte {
	switch d {
	case Sha1:
		return 0x02
	case Sha256:
		return 0x08
	case Ripemd160:
		return 0x03
	default:
		panic(fmt.Sprintf("otstimestamp: unreachable digest type %d", d))
	}
}

// DigestLen returns the authoritative byte count of d's initial digest.
func (d DigestType) DigestLen() int {
	switch d {
	case Sha1, Ripemd160:
		return 20
	case Sha256:
		return 32
	default:
		panic(fmt.Sprintf("otstimestamp: unreachable digest type %d", d))
	}
}

func (d DigestType) String() string {
	switch d {
	case Sha1:
		return "SHA1"
	case Sha256:
		return "SHA256"
	case Ripemd160:
		return "RIPEMD160"
	default:
		return "unknown"
	}
}

// DetachedTimestampFile is the top-level envelope: a digest type, the
// initial document digest, and the root of the commitment tree.
type DetachedTimestampFile struct {
	DigestType DigestType
	Digest     []byte
	Root       Step
}

// Parse reads a complete detached timestamp file from r: the fixed
// magic, version, digest type, initial digest, and recursively the
// commitment tree, then confirms no trailing bytes remain.
func Parse(r io.Reader) (*DetachedTimestampFile, error) {
	rd := otscodec.NewReader(r)

	if err := rd.ReadMagic(); err != nil {
		return nil, err
	}
	if err := rd.ReadVersion(); err != nil {
		return nil, err
	}

	tagByte, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	digestType, err := DigestTypeFromTag(tagByte)
	if err != nil {
		return nil, err
	}
	otslog.Debugf("digest type: %s", digestType)

	digest, err := rd.ReadFixedBytes(digestType.DigestLen())
	if err != nil {
		return nil, err
	}
	otslog.Debugf("digest: %s", otscodec.Hex(digest))

	root, err := deserializeStepRecurse(rd, digest, nil, RecursionLimit)
	if err != nil {
		return nil, err
	}

	if err := rd.CheckEOF(); err != nil {
		return nil, err
	}

	return &DetachedTimestampFile{DigestType: digestType, Digest: digest, Root: root}, nil
}

// Serialize writes f back out byte-for-byte identically to how an
// equivalent stream would have been Parsed.
func (f *DetachedTimestampFile) Serialize(w io.Writer) error {
	wr := otscodec.NewWriter(w)

	if err := wr.WriteMagic(); err != nil {
		return err
	}
	if err := wr.WriteVersion(); err != nil {
		return err
	}
	if err := wr.WriteByte(f.DigestType.Tag()); err != nil {
		return err
	}
	if err := wr.WriteFixedBytes(f.Digest); err != nil {
		return err
	}
	return f.Root.Serialize(wr)
}

// String renders the whole file the way ots_info does: the digest
// type and starting digest, then the tree.
func (f *DetachedTimestampFile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s digest of some data.\n", f.DigestType)
	fmt.Fprintf(&sb, "Starting digest: %s\n", otscodec.Hex(f.Digest))
	f.Root.writeString(&sb, 0, false)
	return sb.String()
}
