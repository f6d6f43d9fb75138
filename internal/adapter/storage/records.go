// internal/adapter/storage/records.go

package storage

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"retailtrends/internal/domain/trend"
	"retailtrends/internal/metrics"
)

// RecordStore persists the full record set of a run as one JSON array
// blob. Writes go to the remote store when configured, falling back to
// the local file store on any failure; reads try remote first, local
// second.
type RecordStore struct {
	remote BlobStore // nil when no remote store is configured
	local  BlobStore
	log    zerolog.Logger
}

// NewRecordStore creates a record store. remote may be nil.
func NewRecordStore(remote, local BlobStore, log zerolog.Logger) *RecordStore {
	return &RecordStore{remote: remote, local: local, log: log}
}

// SaveRecords encodes the records and stores them under key. The returned
// flag reports whether the local fallback carried the write; the shape of
// the stored data is identical either way. A remote success still writes
// a local backup copy best-effort.
func (s *RecordStore) SaveRecords(ctx context.Context, key string, records []trend.Record) (usedFallback bool, err error) {
	data, err := json.Marshal(records)
	if err != nil {
		return false, fmt.Errorf("encoding records: %w", err)
	}

	if s.remote != nil {
		remoteErr := s.remote.Store(ctx, key, data)
		if remoteErr == nil {
			if err := s.local.Store(ctx, key, data); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("local backup write failed")
			}
			return false, nil
		}
		s.log.Warn().Err(remoteErr).Str("key", key).Msg("remote store failed, falling back to local storage")
	}

	metrics.StoreFallbacks.Inc()
	if err := s.local.Store(ctx, key, data); err != nil {
		return true, fmt.Errorf("local fallback store failed: %w", err)
	}
	return true, nil
}

// LoadRecords retrieves and decodes the record set stored under key.
func (s *RecordStore) LoadRecords(ctx context.Context, key string) ([]trend.Record, error) {
	data, err := s.loadBlob(ctx, key)
	if err != nil {
		return nil, err
	}

	var records []trend.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding records for %q: %w", key, err)
	}
	return records, nil
}

func (s *RecordStore) loadBlob(ctx context.Context, key string) ([]byte, error) {
	if s.remote != nil {
		data, err := s.remote.Load(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("remote load failed, falling back to local storage")
		}
	}
	return s.local.Load(ctx, key)
}
