// Package file implements a flat-file subnet store, one JSON object per line.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/netops-tools/subnet-inventory/internal/domain"
)

// Store persists subnets to a single flat file. Each line is a JSON-encoded
// record; line order is insertion order. A missing file is an empty store.
//
// The store assumes a single writer. Replacements are atomic (temp file +
// rename), but two concurrent invocations can still lose one party's append.
type Store struct {
	path string
}

// New creates a file store at the given path. The file is created lazily on
// first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Close is a no-op; the store holds no open handles between operations.
func (s *Store) Close() error { return nil }

// LoadSubnets reads every record in stored order.
func (s *Store) LoadSubnets(ctx context.Context) ([]*domain.Subnet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Subnet{}, nil
		}
		return nil, fmt.Errorf("opening inventory file: %w", err)
	}
	defer f.Close()

	var subnets []*domain.Subnet
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var subnet domain.Subnet
		if err := json.Unmarshal(line, &subnet); err != nil {
			return nil, fmt.Errorf("decoding inventory line: %w", err)
		}
		subnets = append(subnets, &subnet)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}
	if subnets == nil {
		subnets = []*domain.Subnet{}
	}
	return subnets, nil
}

// AppendSubnet adds one record to the end of the file.
func (s *Store) AppendSubnet(ctx context.Context, subnet *domain.Subnet) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating inventory directory: %w", err)
	}

	line, err := json.Marshal(subnet)
	if err != nil {
		return fmt.Errorf("encoding subnet: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening inventory file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing inventory file: %w", err)
	}
	return f.Sync()
}

// ReplaceSubnets atomically rewrites the file with exactly the given records.
func (s *Store) ReplaceSubnets(ctx context.Context, subnets []*domain.Subnet) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating inventory directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	for _, subnet := range subnets {
		line, err := json.Marshal(subnet)
		if err != nil {
			return fmt.Errorf("encoding subnet: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("writing temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing inventory file: %w", err)
	}
	return nil
}
