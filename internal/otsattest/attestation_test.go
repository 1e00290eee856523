package otsattest

import (
	"bytes"
	"go-ots/internal/oterr"
	"go-ots/internal/otscodec"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, a Attestation) Attestation {
	t.Helper()
	var buf bytes.Buffer
	if err := a.Write(otscodec.NewWriter(&buf)); err != nil {
		t.Fatalf("Write(%s): %v", a, err)
	}
	got, err := Read(otscodec.NewReader(&buf))
	if err != nil {
		t.Fatalf("Read after Write(%s): %v", a, err)
	}
	return got
}

func TestBitcoinRoundTrip(t *testing.T) {
	a := NewBitcoin(500000)
	got := roundTrip(t, a)
	if got.Kind != Bitcoin || got.Height != 500000 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestBitcoinZeroHeight(t *testing.T) {
	// Scenario A.
	got := roundTrip(t, NewBitcoin(0))
	if got.Kind != Bitcoin || got.Height != 0 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestPendingRoundTrip(t *testing.T) {
	a := NewPending("https://alice.btc.calendar.opentimestamps.org")
	got := roundTrip(t, a)
	if got.Kind != Pending || got.URI != a.URI {
		t.Errorf("round trip = %+v", got)
	}
}

func TestUnknownOpacity(t *testing.T) {
	// Property 8: parse-then-serialize preserves unknown payloads
	// exactly.
	tag := [TagSize]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	a := NewUnknown(tag, data)
	got := roundTrip(t, a)
	if got.Kind != Unknown || got.Tag != tag || !bytes.Equal(got.Data, data) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestURICharsetTotality(t *testing.T) {
	// Property 7.
	bad := []string{"a?b", "a&b", "a@b", "a%20b", "a b"}
	for _, uri := range bad {
		var buf bytes.Buffer
		w := otscodec.NewWriter(&buf)
		if err := w.WriteFixedBytes(PendingTag[:]); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteBytes([]byte(uri)); err != nil {
			t.Fatal(err)
		}
		_, err := Read(otscodec.NewReader(&buf))
		if k, ok := oterr.KindOf(err); !ok || k != oterr.InvalidUriChar {
			t.Errorf("uri %q: expected InvalidUriChar, got %v", uri, err)
		}
	}
}

func TestURICharsetAllowed(t *testing.T) {
	uri := "https://a.b-c_d/e:1"
	for _, ch := range uri {
		if !isURIChar(ch) {
			t.Errorf("%q should be permitted", ch)
		}
	}
}

func TestPendingTooLong(t *testing.T) {
	uri := strings.Repeat("a", MaxURILen+1)
	var buf bytes.Buffer
	w := otscodec.NewWriter(&buf)
	if err := w.WriteFixedBytes(PendingTag[:]); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes([]byte(uri)); err != nil {
		t.Fatal(err)
	}
	_, err := Read(otscodec.NewReader(&buf))
	if k, ok := oterr.KindOf(err); !ok || k != oterr.BadLength {
		t.Fatalf("expected BadLength, got %v", err)
	}
}

func TestString(t *testing.T) {
	if got := NewBitcoin(5).String(); got != "Bitcoin block 5" {
		t.Errorf("got %q", got)
	}
	if got := NewPending("https://a.b").String(); got != "Pending: update URI https://a.b" {
		t.Errorf("got %q", got)
	}
}
