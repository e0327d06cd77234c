package domain

import (
	"time"

	"github.com/netops-tools/subnet-inventory/internal/netcalc"
)

// Subnet is a named network block in the inventory.
// CIDR holds the exact text supplied at add time; duplicate detection and
// overlap checks work on the canonical (masked) form.
type Subnet struct {
	ID        string    `json:"id,omitempty" db:"id"`
	Name      string    `json:"name" db:"name"`
	CIDR      string    `json:"cidr" db:"cidr"`
	CreatedAt time.Time `json:"created_at,omitzero" db:"created_at"`
}

// Network parses the subnet's CIDR into its normalized network form.
func (s *Subnet) Network() (netcalc.Network, error) {
	return netcalc.Parse(s.CIDR)
}

// CreateSubnetRequest is the request body for adding a subnet.
// Confirmed must be set to proceed when the candidate overlaps existing
// records; it has no effect on reserved-range rejections.
type CreateSubnetRequest struct {
	Name      string `json:"name"`
	CIDR      string `json:"cidr"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// ConflictListResponse reports the stored subnets a candidate overlaps.
type ConflictListResponse struct {
	CIDR      string    `json:"cidr"`
	Conflicts []*Subnet `json:"conflicts"`
}

// QueryResponse reports whether an address is already in the inventory.
type QueryResponse struct {
	CIDR   string `json:"cidr"`
	Exists bool   `json:"exists"`
}
