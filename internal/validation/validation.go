// Package validation provides syntactic validation for subnet inventory input.
package validation

import (
	"fmt"

	"github.com/netops-tools/subnet-inventory/internal/netcalc"
)

// isAlpha returns true if the byte is an ASCII letter.
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// ValidateSubnetName validates a subnet name.
// Names must start with a letter and contain only letters, numbers, hyphens,
// or underscores. The persisted formats tolerate arbitrary strings, but a
// restricted charset keeps names unambiguous across the CLI and API.
func ValidateSubnetName(name string) error {
	if name == "" {
		return fmt.Errorf("subnet name must not be empty")
	}
	if !isAlpha(name[0]) {
		return fmt.Errorf("subnet name must start with a letter")
	}
	for _, b := range []byte(name) {
		if !isAlpha(b) && !isNum(b) && b != '-' && b != '_' {
			return fmt.Errorf("subnet names can only contain letters, numbers, hyphens, or underscores")
		}
	}
	return nil
}

// ValidateCIDR validates an IPv4 CIDR string, e.g. "10.0.0.0/8".
// Host bits are tolerated; out-of-range octets or prefix lengths are not.
func ValidateCIDR(cidr string) error {
	if cidr == "" {
		return fmt.Errorf("address must not be empty")
	}
	if _, err := netcalc.Parse(cidr); err != nil {
		return fmt.Errorf("must be a valid IPv4 CIDR, e.g. 10.0.0.0/8")
	}
	return nil
}
