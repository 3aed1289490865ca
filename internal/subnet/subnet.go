// Package subnet derives IPv4 subnet parameters from a base address and
// a subnet mask given either as a CIDR prefix length or in dotted-decimal
// form.
package subnet

import (
	"subnetcalc/internal/ipv4"
)

// Subnet is the result of one calculation. All address fields are
// dotted-decimal strings; Address holds the caller's input address.
//
// TotalHosts is the usable host count, broadcast - network - 1 as a
// signed value. The derivation applies the same formulas at every prefix
// length, so /31 yields 0 and /32 yields -1 with FirstHost and LastHost
// wrapped past the network; callers that want point-to-point semantics
// must interpret those results themselves.
type Subnet struct {
	Address    string `json:"address"`
	Mask       string `json:"mask"`
	PrefixLen  int    `json:"prefix_len"`
	Network    string `json:"network"`
	Broadcast  string `json:"broadcast"`
	FirstHost  string `json:"first_host"`
	LastHost   string `json:"last_host"`
	TotalHosts int64  `json:"total_hosts"`
}

// FromCIDR computes the subnet for ipText with the top prefixLen bits as
// network bits. prefixLen must be between 0 and 32 inclusive.
func FromCIDR(ipText string, prefixLen int) (Subnet, error) {
	mask, err := ipv4.MaskFromPrefix(prefixLen)
	if err != nil {
		return Subnet{}, err
	}
	ip, err := ipv4.Parse(ipText)
	if err != nil {
		return Subnet{}, err
	}
	return derive(ipText, ip, mask), nil
}

// FromMask computes the subnet for ipText under the dotted-decimal mask
// maskText. The mask must be one of the 33 canonical contiguous-prefix
// masks; the prefix length is recovered from its leading-ones count.
func FromMask(ipText, maskText string) (Subnet, error) {
	ip, err := ipv4.Parse(ipText)
	if err != nil {
		return Subnet{}, err
	}
	mask, err := ipv4.ParseMask(maskText)
	if err != nil {
		return Subnet{}, err
	}
	return derive(ipText, ip, mask), nil
}

// derive applies the canonical formulas. The host arithmetic is plain
// uint32 arithmetic, so firstHost and lastHost wrap modulo 2^32 at the
// address space edges rather than erroring.
func derive(ipText string, ip ipv4.Addr, mask ipv4.Mask) Subnet {
	network := uint32(ip) & uint32(mask)
	broadcast := network | ^uint32(mask)
	firstHost := network + 1
	lastHost := broadcast - 1
	return Subnet{
		Address:    ipText,
		Mask:       mask.String(),
		PrefixLen:  mask.Bits(),
		Network:    ipv4.Addr(network).String(),
		Broadcast:  ipv4.Addr(broadcast).String(),
		FirstHost:  ipv4.Addr(firstHost).String(),
		LastHost:   ipv4.Addr(lastHost).String(),
		TotalHosts: int64(broadcast) - int64(network) - 1,
	}
}
