package storage

import (
	"context"

	"github.com/netops-tools/subnet-inventory/internal/domain"
)

// SubnetStore is the narrow adapter the inventory rules engine depends on.
// The store is an ordered sequence of records; order is insertion order.
type SubnetStore interface {
	// Close closes the storage connection.
	Close() error

	// LoadSubnets returns every record in stored order. Absence of persisted
	// state is not an error; it returns an empty slice.
	LoadSubnets(ctx context.Context) ([]*domain.Subnet, error)

	// AppendSubnet adds one record, preserving existing order.
	AppendSubnet(ctx context.Context, subnet *domain.Subnet) error

	// ReplaceSubnets overwrites persisted state with exactly the given
	// sequence in one shot.
	ReplaceSubnets(ctx context.Context, subnets []*domain.Subnet) error
}

// Storage is the full interface required by the HTTP server.
// Implementations must be safe for concurrent use.
type Storage interface {
	SubnetStore

	// API Keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
	CountAPIKeys(ctx context.Context) (int, error)
}
