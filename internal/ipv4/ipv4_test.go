package ipv4

import (
	"errors"
	"net/netip"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Addr
		wantErr bool
	}{
		{"all zeros", "0.0.0.0", 0, false},
		{"all ones", "255.255.255.255", 0xFFFFFFFF, false},
		{"private address", "192.168.1.10", 0xC0A8010A, false},
		{"loopback", "127.0.0.1", 0x7F000001, false},
		{"octet order", "1.2.3.4", 0x01020304, false},
		{"octet too large", "256.1.1.1", 0, true},
		{"three octets", "1.2.3", 0, true},
		{"five octets", "1.2.3.4.5", 0, true},
		{"empty octet", "1..2.3", 0, true},
		{"empty string", "", 0, true},
		{"non-numeric octet", "a.b.c.d", 0, true},
		{"negative octet", "1.2.3.-4", 0, true},
		{"plus sign", "+1.2.3.4", 0, true},
		{"leading whitespace", " 1.2.3.4", 0, true},
		{"trailing whitespace", "1.2.3.4 ", 0, true},
		{"hex octet", "0x1.2.3.4", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidAddress", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#x, want %#x", tt.input, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestAddrString(t *testing.T) {
	tests := []struct {
		addr Addr
		want string
	}{
		{0, "0.0.0.0"},
		{0xFFFFFFFF, "255.255.255.255"},
		{0xC0A8010A, "192.168.1.10"},
		{0x01020304, "1.2.3.4"},
		{0x0A000001, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("Addr(%#x).String() = %q, want %q", uint32(tt.addr), got, tt.want)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	// Walk the 32-bit space with a large odd stride so every run covers
	// addresses in all octet ranges, plus the exact edges.
	const stride = 2654435761 // closest odd integer to 2^32/phi
	v := uint32(0)
	for i := 0; i < 4096; i++ {
		a := Addr(v)
		got, err := Parse(a.String())
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", a.String(), err)
		}
		if got != a {
			t.Fatalf("Parse(Format(%#x)) = %#x", uint32(a), uint32(got))
		}
		v += stride
	}
	for _, edge := range []Addr{0, 1, 0x00FFFFFF, 0xFF000000, 0xFFFFFFFF} {
		got, err := Parse(edge.String())
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", edge.String(), err)
		}
		if got != edge {
			t.Errorf("Parse(Format(%#x)) = %#x", uint32(edge), uint32(got))
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, s := range []string{"0.0.0.0", "10.0.0.5", "172.16.5.200", "192.168.1.254", "255.255.255.255"} {
		a, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", s, err)
		}
		if got := a.String(); got != s {
			t.Errorf("Format(Parse(%q)) = %q", s, got)
		}
	}
}

func TestNetipConversions(t *testing.T) {
	a, err := Parse("192.168.1.10")
	if err != nil {
		t.Fatal(err)
	}
	na := a.Netip()
	if na.String() != "192.168.1.10" {
		t.Errorf("Netip() = %s, want 192.168.1.10", na)
	}
	back, err := FromNetip(na)
	if err != nil {
		t.Fatalf("FromNetip unexpected error: %v", err)
	}
	if back != a {
		t.Errorf("FromNetip(Netip()) = %#x, want %#x", uint32(back), uint32(a))
	}
}

func TestFromNetipRejectsIPv6(t *testing.T) {
	if _, err := FromNetip(netip.MustParseAddr("::1")); err == nil {
		t.Error("expected error for IPv6 address")
	}
}
