package ledmap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HexBytes is a packed byte run that serializes to JSON as an array of
// "0xHH" literals, the same spelling the code renderers use.
type HexBytes []byte

// String formats the bytes as comma separated "0xHH" literals.
func (h HexBytes) String() string {
	var b strings.Builder
	for i, v := range h {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "0x%02X", v)
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	lits := make([]string, len(h))
	for i, v := range h {
		lits[i] = fmt.Sprintf("0x%02X", v)
	}
	return json.Marshal(lits)
}

// UnmarshalJSON implements json.Unmarshaler. Plain numbers are accepted as
// well as "0xHH" strings.
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(HexBytes, len(raw))
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			s = string(r)
		}
		v, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return fmt.Errorf("byte %d: %w", i, err)
		}
		out[i] = byte(v)
	}
	*h = out
	return nil
}

// setBit sets bit (7 - n%8) of byte n/8, MSB-first.
func setBit(buf []byte, n int) {
	buf[n>>3] |= 0x80 >> (n & 7)
}

// bitSet reports whether bit n is set under the same MSB-first layout.
func bitSet(buf []byte, n int) bool {
	return buf[n>>3]&(0x80>>(n&7)) != 0
}
