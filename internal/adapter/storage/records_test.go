// internal/adapter/storage/records_test.go

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailtrends/internal/domain/trend"
)

// memStore is an in-memory blob store whose writes and reads can be made
// to fail.
type memStore struct {
	blobs   map[string][]byte
	failPut bool
	failGet bool
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Store(_ context.Context, key string, data []byte) error {
	if m.failPut {
		return errors.New("store unavailable")
	}
	m.blobs[key] = data
	return nil
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, error) {
	if m.failGet {
		return nil, errors.New("store unavailable")
	}
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func testRecords() []trend.Record {
	return []trend.Record{
		{ID: 1, Name: "Silk Saree", Category: "Fashion", Region: "Mumbai", TotalMentions: 42},
		{ID: 2, Name: "Lip Tint", Category: "Beauty", Region: "Pune", TotalMentions: 7},
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "trends", []byte(`[{"id":1}]`)))

	data, err := store.Load(ctx, "trends")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), data)

	// Keys with a .json suffix map to the same file.
	data, err = store.Load(ctx, "trends.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), data)
}

func TestFileStoreNotFound(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRecordsRemoteSuccess(t *testing.T) {
	remote := newMemStore()
	local := newMemStore()
	store := NewRecordStore(remote, local, zerolog.Nop())

	usedFallback, err := store.SaveRecords(context.Background(), "trends", testRecords())
	require.NoError(t, err)
	assert.False(t, usedFallback)

	// The remote write also leaves a local backup copy.
	assert.Contains(t, remote.blobs, "trends")
	assert.Contains(t, local.blobs, "trends")
}

func TestSaveRecordsFallsBackOnRemoteFailure(t *testing.T) {
	remote := newMemStore()
	remote.failPut = true
	local := newMemStore()
	store := NewRecordStore(remote, local, zerolog.Nop())

	usedFallback, err := store.SaveRecords(context.Background(), "trends", testRecords())
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.Contains(t, local.blobs, "trends")
}

func TestSaveRecordsNoRemote(t *testing.T) {
	local := newMemStore()
	store := NewRecordStore(nil, local, zerolog.Nop())

	usedFallback, err := store.SaveRecords(context.Background(), "trends", testRecords())
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.Contains(t, local.blobs, "trends")
}

func TestSaveRecordsBothFail(t *testing.T) {
	remote := newMemStore()
	remote.failPut = true
	local := newMemStore()
	local.failPut = true
	store := NewRecordStore(remote, local, zerolog.Nop())

	_, err := store.SaveRecords(context.Background(), "trends", testRecords())
	assert.Error(t, err)
}

func TestLoadRecordsRoundtrip(t *testing.T) {
	local := newMemStore()
	store := NewRecordStore(nil, local, zerolog.Nop())
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, "trends", testRecords())
	require.NoError(t, err)

	records, err := store.LoadRecords(ctx, "trends")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Silk Saree", records[0].Name)
	assert.Equal(t, 42, records[0].TotalMentions)
}

func TestLoadRecordsPrefersRemote(t *testing.T) {
	remote := newMemStore()
	local := newMemStore()
	store := NewRecordStore(remote, local, zerolog.Nop())
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, "trends", testRecords())
	require.NoError(t, err)

	// Diverge the local copy; the remote one wins on read.
	local.blobs["trends"] = []byte(`[]`)

	records, err := store.LoadRecords(ctx, "trends")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadRecordsFallsBackOnRemoteError(t *testing.T) {
	remote := newMemStore()
	local := newMemStore()
	store := NewRecordStore(remote, local, zerolog.Nop())
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, "trends", testRecords())
	require.NoError(t, err)

	remote.failGet = true

	records, err := store.LoadRecords(ctx, "trends")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadRecordsNotFound(t *testing.T) {
	store := NewRecordStore(nil, newMemStore(), zerolog.Nop())

	_, err := store.LoadRecords(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
