// Package display encodes numbers for the four-digit seven-segment modules and
// drives them over their two-wire interface.
package display

// Segment bits as the TM1637 expects them.
const (
	SegA byte = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

const Digits = 4

// Segments is one module's worth of raw segment bytes, left to right.
type Segments [Digits]byte

var digitSegments = [10]byte{
	SegA | SegB | SegC | SegD | SegE | SegF,
	SegB | SegC,
	SegA | SegB | SegD | SegE | SegG,
	SegA | SegB | SegC | SegD | SegG,
	SegB | SegC | SegF | SegG,
	SegA | SegC | SegD | SegF | SegG,
	SegA | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC,
	SegA | SegB | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC | SegD | SegF | SegG,
}

var (
	Blank  = Segments{}
	Dashes = Segments{SegG, SegG, SegG, SegG}
	// Off spells " OFF".
	Off = Segments{0, SegA | SegB | SegC | SegD | SegE | SegF, SegA | SegE | SegF | SegG, SegA | SegE | SegF | SegG}
	All = Segments{0xff, 0xff, 0xff, 0xff}
)

// EncodeNumber right-aligns value with blank leading zeros. With decimal set
// the last digit is tenths, so 12 reads 1.2 and 5 reads 0.5. Values that do
// not fit show dashes.
func EncodeNumber(value int, decimal bool) Segments {
	if value > 9999 || value < -999 {
		return Dashes
	}
	neg := value < 0
	if neg {
		value = -value
	}
	minDigits := 1
	if decimal {
		minDigits = 2
	}

	var out Segments
	pos := Digits - 1
	for n := 0; pos >= 0 && (value > 0 || n < minDigits); n++ {
		out[pos] = digitSegments[value%10]
		value /= 10
		pos--
	}
	if neg {
		if pos < 0 {
			return Dashes
		}
		out[pos] = SegG
	}
	if decimal {
		out[Digits-2] |= SegDP
	}
	return out
}

// Rotate shifts the pattern one digit left, wrapping around. Used for the
// boot waterfall.
func (s Segments) Rotate() Segments {
	var out Segments
	for i := range s {
		out[i] = s[(i+1)%Digits]
	}
	return out
}

var glyphs = map[byte]byte{
	0:                                ' ',
	SegG:                             '-',
	SegA | SegE | SegF | SegG:        'F',
	SegA | SegD | SegE | SegF | SegG: 'E',
	SegA | SegB | SegE | SegF | SegG: 'P',
}

func init() {
	for d, segs := range digitSegments {
		glyphs[segs] = byte('0' + d)
	}
}

// String reads the pattern back as text. A lit decimal point follows its
// digit; patterns with no glyph show as '?'.
func (s Segments) String() string {
	out := make([]byte, 0, 2*Digits)
	for _, b := range s {
		c, ok := glyphs[b&^SegDP]
		if !ok {
			c = '?'
		}
		out = append(out, c)
		if b&SegDP != 0 {
			out = append(out, '.')
		}
	}
	return string(out)
}
