// Package netcalc provides parsing and range arithmetic for IPv4 CIDR blocks.
package netcalc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"regexp"
)

// ErrFormat is returned when a string is not a valid IPv4 CIDR.
var ErrFormat = errors.New("not a valid IPv4 CIDR")

// cidrShape matches the textual shape of an IPv4 CIDR. It intentionally does
// not bound octet or prefix values; netip.ParsePrefix rejects those.
var cidrShape = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}/\d{1,2}$`)

// Network is a normalized IPv4 network: a base address masked to its prefix
// length. The zero value is not a valid network.
type Network struct {
	prefix netip.Prefix
}

// Parse parses an IPv4 CIDR string into a Network. Parsing is non-strict:
// host bits are masked away, so "10.0.0.5/24" parses to 10.0.0.0/24.
func Parse(text string) (Network, error) {
	if !cidrShape.MatchString(text) {
		return Network{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	prefix, err := netip.ParsePrefix(text)
	if err != nil {
		return Network{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	if !prefix.Addr().Is4() {
		return Network{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	return Network{prefix: prefix.Masked()}, nil
}

// MustParse is like Parse but panics on error. For use with fixed inputs.
func MustParse(text string) Network {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

// IsValid reports whether n holds a parsed network.
func (n Network) IsValid() bool {
	return n.prefix.IsValid()
}

// Prefix returns the underlying masked prefix.
func (n Network) Prefix() netip.Prefix {
	return n.prefix
}

// String returns the canonical masked form, e.g. "10.0.0.0/24".
func (n Network) String() string {
	return n.prefix.String()
}

// first returns the lowest address in the network as a uint32.
func (n Network) first() uint32 {
	addr := n.prefix.Addr().As4()
	return binary.BigEndian.Uint32(addr[:])
}

// last returns the highest address in the network as a uint32.
func (n Network) last() uint32 {
	size := uint64(1) << (32 - n.prefix.Bits())
	return uint32(uint64(n.first()) + size - 1)
}

// First returns the lowest address in the network.
func (n Network) First() netip.Addr {
	return n.prefix.Addr()
}

// Last returns the highest address in the network (the broadcast address).
func (n Network) Last() netip.Addr {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n.last())
	return netip.AddrFrom4(buf)
}

// Overlaps reports whether the inclusive address ranges of n and o intersect.
// This covers equality, containment in either direction, and partial overlap.
// It is symmetric: n.Overlaps(o) == o.Overlaps(n).
func (n Network) Overlaps(o Network) bool {
	return n.first() <= o.last() && o.first() <= n.last()
}

// Equal reports whether n and o describe the same address range.
func (n Network) Equal(o Network) bool {
	return n.prefix == o.prefix
}
