package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/netops-tools/subnet-inventory/internal/domain"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu sync.RWMutex

	subnets []*domain.Subnet
	apiKeys map[string]*domain.APIKey // key: id
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		subnets: []*domain.Subnet{},
		apiKeys: make(map[string]*domain.APIKey),
	}
}

func (s *Store) Close() error { return nil }

// ============================================
// Subnets
// ============================================

func (s *Store) LoadSubnets(ctx context.Context) ([]*domain.Subnet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Subnet, len(s.subnets))
	for i, subnet := range s.subnets {
		copied := *subnet
		out[i] = &copied
	}
	return out, nil
}

func (s *Store) AppendSubnet(ctx context.Context, subnet *domain.Subnet) error {
	network, err := netcalc.Parse(subnet.CIDR)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subnets {
		if existing.Name == subnet.Name {
			return domain.ErrAlreadyExists
		}
		if existingNet, err := existing.Network(); err == nil && existingNet.Equal(network) {
			return domain.ErrAlreadyExists
		}
	}

	copied := *subnet
	s.subnets = append(s.subnets, &copied)
	return nil
}

func (s *Store) ReplaceSubnets(ctx context.Context, subnets []*domain.Subnet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := make([]*domain.Subnet, len(subnets))
	for i, subnet := range subnets {
		copied := *subnet
		replacement[i] = &copied
	}
	s.subnets = replacement
	return nil
}

// ============================================
// API Keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apiKeys {
		if existing.KeyHash == key.KeyHash {
			return domain.ErrAlreadyExists
		}
	}

	copied := *key
	s.apiKeys[key.ID] = &copied
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.apiKeys {
		if key.KeyHash == keyHash {
			copied := *key
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, key := range s.apiKeys {
		copied := *key
		keys = append(keys, &copied)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apiKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.apiKeys[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	key.LastUsedAt = &now
	return nil
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiKeys), nil
}
