package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ReportStore keeps enriched route reports by ID for later retrieval.
type ReportStore interface {
	Put(ctx context.Context, id string, report any) error
	// Get decodes the report into out. found is false for unknown or
	// expired IDs.
	Get(ctx context.Context, id string, out any) (found bool, err error)
	// Delete removes a report. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error
	Close()
}

// MemoryReportStore keeps reports in the in-memory TTL cache.
type MemoryReportStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewMemoryReportStore creates a store on top of cache.
func NewMemoryReportStore(cache *Cache, ttl time.Duration) *MemoryReportStore {
	return &MemoryReportStore{cache: cache, ttl: ttl}
}

func (s *MemoryReportStore) Put(_ context.Context, id string, report any) error {
	return s.cache.Set(reportKey(id), report, s.ttl, "report")
}

func (s *MemoryReportStore) Get(_ context.Context, id string, out any) (bool, error) {
	return s.cache.Get(reportKey(id), out)
}

func (s *MemoryReportStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(reportKey(id))
	return nil
}

func (s *MemoryReportStore) Close() {}

func reportKey(id string) string {
	return "report:" + id
}

// ValkeyReportStore keeps reports in Valkey so several server instances
// share them.
type ValkeyReportStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyReportStore connects to a Valkey server.
func NewValkeyReportStore(addr, prefix string, ttl time.Duration) (*ValkeyReportStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &ValkeyReportStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *ValkeyReportStore) Put(ctx context.Context, id string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd := s.client.B().Set().Key(s.prefix + id).Value(string(data)).Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store report %s: %w", id, err)
	}
	return nil
}

func (s *ValkeyReportStore) Get(ctx context.Context, id string, out any) (bool, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(s.prefix+id).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return true, nil
}

func (s *ValkeyReportStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.prefix+id).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}

// Close releases the client.
func (s *ValkeyReportStore) Close() {
	s.client.Close()
}
