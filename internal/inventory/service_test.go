package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/netops-tools/subnet-inventory/internal/domain"
	"github.com/netops-tools/subnet-inventory/internal/inventory"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
	"github.com/netops-tools/subnet-inventory/internal/storage/memory"
)

func newService(t *testing.T, reservedRanges ...string) (*inventory.Service, *memory.Store) {
	t.Helper()
	reserved := make([]netcalc.Network, 0, len(reservedRanges))
	for _, r := range reservedRanges {
		reserved = append(reserved, netcalc.MustParse(r))
	}
	store := memory.New()
	return inventory.New(store, reserved), store
}

func mustAdd(t *testing.T, svc *inventory.Service, name, cidr string) {
	t.Helper()
	if _, err := svc.ProposeAdd(context.Background(), name, cidr); err != nil {
		t.Fatalf("ProposeAdd(%s, %s) failed: %v", name, cidr, err)
	}
	if err := svc.CommitAdd(context.Background(), &domain.Subnet{Name: name, CIDR: cidr}); err != nil {
		t.Fatalf("CommitAdd(%s, %s) failed: %v", name, cidr, err)
	}
}

func TestProposeAddRejectsInvalidCIDR(t *testing.T) {
	svc, _ := newService(t)

	for _, cidr := range []string{"10.0.0.0", "999.0.0.0/24", "10.0.0.0/33", ""} {
		if _, err := svc.ProposeAdd(context.Background(), "bad", cidr); !errors.Is(err, netcalc.ErrFormat) {
			t.Errorf("ProposeAdd with cidr %q: error = %v, want ErrFormat", cidr, err)
		}
	}
}

func TestProposeAddRejectsReserved(t *testing.T) {
	svc, _ := newService(t, "192.168.14.128/25")

	// A /32 inside the reserved /25 is rejected unconditionally.
	_, err := svc.ProposeAdd(context.Background(), "sneaky", "192.168.14.200/32")
	if !errors.Is(err, domain.ErrReservedRange) {
		t.Fatalf("expected ErrReservedRange, got %v", err)
	}

	// The store must be untouched.
	subnets, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subnets) != 0 {
		t.Errorf("expected empty store after reserved rejection, got %d records", len(subnets))
	}
}

func TestCommitAddRejectsReserved(t *testing.T) {
	svc, _ := newService(t, "192.168.14.128/25")

	// CommitAdd re-checks the reserved set; confirmation never overrides it.
	err := svc.CommitAdd(context.Background(), &domain.Subnet{Name: "sneaky", CIDR: "192.168.14.128/25"})
	if !errors.Is(err, domain.ErrReservedRange) {
		t.Fatalf("expected ErrReservedRange, got %v", err)
	}
}

func TestProposeAddRejectsDuplicateName(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "office", "10.0.0.0/24")

	_, err := svc.ProposeAdd(context.Background(), "office", "172.16.0.0/24")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestProposeAddRejectsDuplicateAddress(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "office", "10.0.0.0/24")

	// A different spelling of the same range is still a duplicate.
	_, err := svc.ProposeAdd(context.Background(), "office2", "10.0.0.1/24")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestProposeAddReportsConflicts(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "A", "10.0.0.0/24")
	mustAdd(t, svc, "B", "10.0.1.0/24")

	// Overlaps A but not B.
	proposal, err := svc.ProposeAdd(context.Background(), "C", "10.0.0.128/25")
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	if len(proposal.Conflicts) != 1 || proposal.Conflicts[0].Name != "A" {
		t.Fatalf("expected conflict with A only, got %+v", proposal.Conflicts)
	}

	// No overlaps at all.
	proposal, err = svc.ProposeAdd(context.Background(), "D", "172.16.0.0/16")
	if err != nil {
		t.Fatalf("ProposeAdd failed: %v", err)
	}
	if len(proposal.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", proposal.Conflicts)
	}
}

func TestFindConflictsReturnsAllOverlapsInStoreOrder(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "A", "10.0.0.0/24")
	mustAdd(t, svc, "B", "10.0.0.128/25")

	// 10.0.0.0/25 is contained in A and adjacent to B: one conflict.
	conflicts, err := svc.FindConflicts(context.Background(), netcalc.MustParse("10.0.0.0/25"))
	if err != nil {
		t.Fatalf("FindConflicts failed: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].Name != "A" {
		t.Fatalf("expected [A], got %+v", conflicts)
	}

	// A /24 covering both halves conflicts with both, in store order.
	conflicts, err = svc.FindConflicts(context.Background(), netcalc.MustParse("10.0.0.0/24"))
	if err != nil {
		t.Fatalf("FindConflicts failed: %v", err)
	}
	if len(conflicts) != 2 || conflicts[0].Name != "A" || conflicts[1].Name != "B" {
		t.Fatalf("expected [A B], got %+v", conflicts)
	}
}

func TestNameExists(t *testing.T) {
	svc, _ := newService(t)

	exists, err := svc.NameExists(context.Background(), "office")
	if err != nil || exists {
		t.Fatalf("NameExists on empty store = (%v, %v), want (false, nil)", exists, err)
	}

	mustAdd(t, svc, "office", "10.0.0.0/24")

	exists, err = svc.NameExists(context.Background(), "office")
	if err != nil || !exists {
		t.Fatalf("NameExists after add = (%v, %v), want (true, nil)", exists, err)
	}
}

func TestAddressExistsMatchesCanonicalForm(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "office", "10.0.0.5/24")

	tests := []struct {
		cidr string
		want bool
	}{
		{"10.0.0.5/24", true},
		{"10.0.0.0/24", true}, // same range, different spelling
		{"10.0.0.0/25", false},
		{"10.0.1.0/24", false},
	}
	for _, tt := range tests {
		exists, err := svc.AddressExists(context.Background(), tt.cidr)
		if err != nil {
			t.Fatalf("AddressExists(%s) failed: %v", tt.cidr, err)
		}
		if exists != tt.want {
			t.Errorf("AddressExists(%s) = %v, want %v", tt.cidr, exists, tt.want)
		}
	}
}

func TestRemove(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "A", "10.0.0.0/24")
	mustAdd(t, svc, "B", "10.0.1.0/24")

	removed, err := svc.Remove(context.Background(), "A")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Remove removed %d records, want 1", removed)
	}

	subnets, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subnets) != 1 || subnets[0].Name != "B" {
		t.Fatalf("expected [B] after removal, got %+v", subnets)
	}
}

func TestRemoveAbsentNameIsNoOp(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "A", "10.0.0.0/24")

	removed, err := svc.Remove(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Remove removed %d records, want 0", removed)
	}

	subnets, _ := svc.List(context.Background())
	if len(subnets) != 1 {
		t.Errorf("expected store unchanged, got %d records", len(subnets))
	}
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "A", "10.0.0.0/24")

	before, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	mustAdd(t, svc, "temp", "172.16.0.0/24")
	if _, err := svc.Remove(context.Background(), "temp"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	after, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected %d records after round trip, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name || before[i].CIDR != after[i].CIDR {
			t.Errorf("record %d changed: before %+v, after %+v", i, before[i], after[i])
		}
	}
}

func TestGet(t *testing.T) {
	svc, _ := newService(t)
	mustAdd(t, svc, "office", "10.0.0.0/24")

	subnet, err := svc.Get(context.Background(), "office")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if subnet.CIDR != "10.0.0.0/24" {
		t.Errorf("Get returned CIDR %s, want 10.0.0.0/24", subnet.CIDR)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get of absent name: error = %v, want ErrNotFound", err)
	}
}
