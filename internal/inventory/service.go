// Package inventory implements the rules engine for the subnet inventory:
// uniqueness invariants, reserved-range exclusion, and overlap conflict
// reporting over an abstract record store.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/netops-tools/subnet-inventory/internal/domain"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
	"github.com/netops-tools/subnet-inventory/internal/storage"
)

// Service enforces the inventory invariants. The reserved set is fixed at
// construction and can never be allocated, regardless of confirmation.
type Service struct {
	store    storage.SubnetStore
	reserved []netcalc.Network
}

// New creates a new inventory service over the given store.
func New(store storage.SubnetStore, reserved []netcalc.Network) *Service {
	return &Service{store: store, reserved: reserved}
}

// Proposal is the result of a ProposeAdd. An empty conflict list means the
// candidate can be committed without confirmation.
type Proposal struct {
	Candidate netcalc.Network
	Conflicts []*domain.Subnet
}

// List returns every record in stored order.
func (s *Service) List(ctx context.Context) ([]*domain.Subnet, error) {
	return s.store.LoadSubnets(ctx)
}

// Get returns the record with the given name, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, name string) (*domain.Subnet, error) {
	subnets, err := s.store.LoadSubnets(ctx)
	if err != nil {
		return nil, err
	}
	for _, subnet := range subnets {
		if subnet.Name == name {
			return subnet, nil
		}
	}
	return nil, domain.ErrNotFound
}

// NameExists reports whether any record has the given name.
func (s *Service) NameExists(ctx context.Context, name string) (bool, error) {
	subnets, err := s.store.LoadSubnets(ctx)
	if err != nil {
		return false, err
	}
	for _, subnet := range subnets {
		if subnet.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// AddressExists reports whether any record describes the same address range
// as the given CIDR. Comparison is on canonical (masked) forms, so two
// spellings of one range count as the same address.
func (s *Service) AddressExists(ctx context.Context, cidr string) (bool, error) {
	candidate, err := netcalc.Parse(cidr)
	if err != nil {
		return false, err
	}

	subnets, err := s.store.LoadSubnets(ctx)
	if err != nil {
		return false, err
	}
	for _, subnet := range subnets {
		network, err := subnet.Network()
		if err != nil {
			continue
		}
		if network.Equal(candidate) {
			return true, nil
		}
	}
	return false, nil
}

// FindConflicts returns every record whose range overlaps the candidate, in
// stored order. Stored records are assumed well-formed; unparsable ones are
// skipped.
func (s *Service) FindConflicts(ctx context.Context, candidate netcalc.Network) ([]*domain.Subnet, error) {
	subnets, err := s.store.LoadSubnets(ctx)
	if err != nil {
		return nil, err
	}

	conflicts := []*domain.Subnet{}
	for _, subnet := range subnets {
		network, err := subnet.Network()
		if err != nil {
			continue
		}
		if network.Overlaps(candidate) {
			conflicts = append(conflicts, subnet)
		}
	}
	return conflicts, nil
}

// IsReserved reports whether the candidate overlaps any reserved range.
func (s *Service) IsReserved(candidate netcalc.Network) bool {
	for _, reserved := range s.reserved {
		if reserved.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// ProposeAdd validates a candidate record and reports what committing it
// would mean. It never mutates the store. Reserved overlaps and duplicate
// names or addresses fail outright; overlaps with existing records are
// returned for the caller to confirm before calling CommitAdd.
func (s *Service) ProposeAdd(ctx context.Context, name, cidr string) (*Proposal, error) {
	candidate, err := netcalc.Parse(cidr)
	if err != nil {
		return nil, err
	}

	if s.IsReserved(candidate) {
		return nil, fmt.Errorf("subnet %s: %w", candidate, domain.ErrReservedRange)
	}

	exists, err := s.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("name %q: %w", name, domain.ErrAlreadyExists)
	}

	exists, err = s.AddressExists(ctx, cidr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("address %q: %w", cidr, domain.ErrAlreadyExists)
	}

	conflicts, err := s.FindConflicts(ctx, candidate)
	if err != nil {
		return nil, err
	}

	return &Proposal{Candidate: candidate, Conflicts: conflicts}, nil
}

// CommitAdd appends the record to the store. The reserved-range check is
// repeated here as a hard rejection; confirmation only covers overlaps with
// existing records. Assigns an ID and creation time if unset.
func (s *Service) CommitAdd(ctx context.Context, subnet *domain.Subnet) error {
	candidate, err := netcalc.Parse(subnet.CIDR)
	if err != nil {
		return err
	}
	if s.IsReserved(candidate) {
		return fmt.Errorf("subnet %s: %w", candidate, domain.ErrReservedRange)
	}

	if subnet.ID == "" {
		subnet.ID = uuid.New().String()
	}
	if subnet.CreatedAt.IsZero() {
		subnet.CreatedAt = time.Now()
	}

	return s.store.AppendSubnet(ctx, subnet)
}

// Remove deletes every record with the given name and reports how many were
// removed. Removing an absent name is not an error; the store is rewritten
// unchanged and zero is returned.
func (s *Service) Remove(ctx context.Context, name string) (int, error) {
	subnets, err := s.store.LoadSubnets(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]*domain.Subnet, 0, len(subnets))
	for _, subnet := range subnets {
		if subnet.Name != name {
			kept = append(kept, subnet)
		}
	}

	removed := len(subnets) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.ReplaceSubnets(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}
