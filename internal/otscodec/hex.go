package otscodec

const hexDigits = "0123456789abcdef"

// Hex renders b as lowercase hexadecimal, the pretty-printer's only
// textual escape hatch for raw digests and payloads. See spec §4.2.
func Hex(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
