package otsop

import (
	"bytes"
	"go-ots/internal/oterr"
	"go-ots/internal/otscodec"
	"testing"
)

func TestExecuteSemantics(t *testing.T) {
	// Scenario C.
	got := NewSha256().Execute(nil)
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if otscodec.Hex(got) != want {
		t.Errorf("Sha256(\"\") = %s, want %s", otscodec.Hex(got), want)
	}

	rev := NewReverse().Execute([]byte{0x01, 0x02, 0x03})
	if !bytes.Equal(rev, []byte{0x03, 0x02, 0x01}) {
		t.Errorf("Reverse = %x", rev)
	}

	app := NewAppend([]byte{0xaa, 0xbb}).Execute([]byte{0x01})
	if !bytes.Equal(app, []byte{0x01, 0xaa, 0xbb}) {
		t.Errorf("Append = %x", app)
	}

	hex := NewHexlify().Execute([]byte{0xde, 0xad})
	if string(hex) != "dead" {
		t.Errorf("Hexlify = %q", hex)
	}
}

func TestOutputLengths(t *testing.T) {
	input := []byte("arbitrary length input, doesn't matter how long")
	cases := []struct {
		op     Op
		length int
	}{
		{NewSha1(), 20},
		{NewSha256(), 32},
		{NewRipemd160(), 20},
		{NewReverse(), len(input)},
		{NewHexlify(), len(input) * 2},
		{NewAppend([]byte{1, 2, 3}), len(input) + 3},
		{NewPrepend([]byte{1, 2}), len(input) + 2},
	}
	for _, c := range cases {
		got := c.op.Execute(input)
		if len(got) != c.length {
			t.Errorf("%s: output length %d, want %d", c.op, len(got), c.length)
		}
	}
}

func TestOpRoundTrip(t *testing.T) {
	ops := []Op{
		NewSha1(), NewSha256(), NewRipemd160(), NewReverse(), NewHexlify(),
		NewAppend([]byte{0xaa, 0xbb, 0xcc}),
		NewPrepend([]byte("payload")),
	}
	for _, op := range ops {
		var buf bytes.Buffer
		if err := op.Write(otscodec.NewWriter(&buf)); err != nil {
			t.Fatalf("Write(%s): %v", op, err)
		}
		got, err := Read(otscodec.NewReader(&buf))
		if err != nil {
			t.Fatalf("Read after Write(%s): %v", op, err)
		}
		if got.Kind != op.Kind || !bytes.Equal(got.Payload, op.Payload) {
			t.Errorf("round trip %s -> %s", op, got)
		}
	}
}

func TestReadBadOpTag(t *testing.T) {
	_, err := Read(otscodec.NewReader(bytes.NewReader([]byte{0xee})))
	if k, ok := oterr.KindOf(err); !ok || k != oterr.BadOpTag {
		t.Fatalf("expected BadOpTag, got %v", err)
	}
}

func TestReadAppendZeroLengthPayloadFails(t *testing.T) {
	var buf bytes.Buffer
	w := otscodec.NewWriter(&buf)
	if err := w.WriteByte(byte(Append)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes(nil); err != nil {
		t.Fatal(err)
	}
	_, err := Read(otscodec.NewReader(&buf))
	if k, ok := oterr.KindOf(err); !ok || k != oterr.BadLength {
		t.Fatalf("expected BadLength for zero-length append payload, got %v", err)
	}
}

func TestString(t *testing.T) {
	if NewSha256().String() != "SHA256()" {
		t.Errorf("got %q", NewSha256().String())
	}
	if NewAppend([]byte{0xaa, 0xbb}).String() != "Append(aabb)" {
		t.Errorf("got %q", NewAppend([]byte{0xaa, 0xbb}).String())
	}
}
