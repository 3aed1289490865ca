// Package ipv4 converts IPv4 addresses and subnet masks between
// dotted-decimal text and their 32-bit integer form.
package ipv4

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Sentinel errors for specific error handling.
var (
	ErrInvalidAddress    = errors.New("invalid dotted-decimal address")
	ErrNonContiguousMask = errors.New("mask bits are not contiguous")
)

// ParseError provides detailed address/mask parse error information.
type ParseError struct {
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid address %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("invalid address %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Addr is an IPv4 address as a 32-bit integer. The most significant
// byte holds the first octet, so "1.2.3.4" is 0x01020304.
type Addr uint32

// Parse converts dotted-decimal text to an Addr. The text must have
// exactly four dot-separated octets, each a base-10 integer in 0-255
// with no sign or surrounding whitespace.
func Parse(text string) (Addr, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return 0, &ParseError{Text: text, Reason: "must have exactly 4 octets", Err: ErrInvalidAddress}
	}
	var v uint32
	for _, part := range parts {
		octet, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return 0, &ParseError{Text: text, Reason: fmt.Sprintf("octet %q is not an integer in 0-255", part), Err: ErrInvalidAddress}
		}
		v = v<<8 | uint32(octet)
	}
	return Addr(v), nil
}

// String renders the address in dotted-decimal form. It is total over
// all 32-bit values and emits no leading zeros.
func (a Addr) String() string {
	var b []byte
	b = strconv.AppendUint(b, uint64(a>>24), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a>>16&0xFF), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a>>8&0xFF), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a&0xFF), 10)
	return string(b)
}

// Netip converts the address to a netip.Addr in network byte order.
func (a Addr) Netip() netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(a))
	return netip.AddrFrom4(b)
}

// FromNetip converts a netip.Addr to an Addr. The address must be IPv4.
func FromNetip(a netip.Addr) (Addr, error) {
	if !a.Is4() {
		return 0, &ParseError{Text: a.String(), Reason: "only ipv4 is supported", Err: ErrInvalidAddress}
	}
	b := a.As4()
	return Addr(binary.BigEndian.Uint32(b[:])), nil
}
