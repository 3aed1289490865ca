package ipv4

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrPrefixOutOfRange reports a CIDR prefix length outside 0-32.
var ErrPrefixOutOfRange = errors.New("prefix length out of range")

// PrefixLengthError provides detailed prefix length error information.
type PrefixLengthError struct {
	Bits int
}

func (e *PrefixLengthError) Error() string {
	return fmt.Sprintf("prefix length %d must be between 0 and 32", e.Bits)
}

func (e *PrefixLengthError) Unwrap() error {
	return ErrPrefixOutOfRange
}

// Mask is a canonical IPv4 subnet mask: a contiguous run of 1 bits from
// the most significant bit followed by a contiguous run of 0 bits. Only
// the 33 prefix masks /0 through /32 are valid Mask values.
type Mask uint32

// ParseMask converts dotted-decimal text to a Mask. Text that decodes to
// a non-contiguous bit pattern (such as "255.0.255.0") is rejected even
// though Parse would accept it as a plain address.
func ParseMask(text string) (Mask, error) {
	a, err := Parse(text)
	if err != nil {
		return 0, err
	}
	if !contiguous(uint32(a)) {
		return 0, &ParseError{Text: text, Reason: "mask bits must form an unbroken prefix", Err: ErrNonContiguousMask}
	}
	return Mask(a), nil
}

// MaskFromPrefix builds the mask with the top n bits set. n must be
// between 0 and 32 inclusive.
func MaskFromPrefix(n int) (Mask, error) {
	if n < 0 || n > 32 {
		return 0, &PrefixLengthError{Bits: n}
	}
	// A 32-bit shift by 32 is undefined on the underlying value, so the
	// all-zero /0 mask is produced explicitly.
	if n == 0 {
		return 0, nil
	}
	return Mask(^uint32(0) << (32 - n)), nil
}

// Bits returns the prefix length: the number of leading 1 bits.
func (m Mask) Bits() int {
	return bits.OnesCount32(uint32(m))
}

// String renders the mask in dotted-decimal form.
func (m Mask) String() string {
	return Addr(m).String()
}

// contiguous reports whether the set bits of v form an unbroken run
// starting at the most significant bit.
func contiguous(v uint32) bool {
	ones := bits.OnesCount32(v)
	if ones == 0 {
		return v == 0
	}
	return v == ^uint32(0)<<(32-ones)
}

// CanonicalMasks returns all 33 canonical masks ordered by prefix
// length, /0 first.
func CanonicalMasks() []Mask {
	out := make([]Mask, 0, 33)
	for n := 0; n <= 32; n++ {
		m, _ := MaskFromPrefix(n)
		out = append(out, m)
	}
	return out
}
