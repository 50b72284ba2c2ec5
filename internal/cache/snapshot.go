package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// snapshotVersion is bumped whenever the serialized shape changes;
// snapshots from other versions are discarded, never migrated
const snapshotVersion = 1

// Snapshot is the persisted form of a built graph. Only file records
// and routes are stored: edges are recomputed on load, which keeps the
// format small and makes resolver changes self-invalidating.
type Snapshot struct {
	Version   int                           `json:"version"`
	CreatedAt time.Time                     `json:"created_at"`
	Records   map[string]*domain.FileRecord `json:"records"`
	Routes    []*domain.RouteDefinition     `json:"routes"`
}

type snapshotEnvelope struct {
	Checksum string          `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

// EncodeSnapshot serializes a snapshot with an integrity checksum
func EncodeSnapshot(snapshot *Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return json.Marshal(snapshotEnvelope{
		Checksum: HashBytes(payload),
		Payload:  payload,
	})
}

// DecodeSnapshot parses and validates a serialized snapshot. A bad
// checksum or a version mismatch yields ErrSnapshotInvalid; callers
// fall back to a full rebuild.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var envelope snapshotEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotInvalid, err)
	}
	if envelope.Checksum != HashBytes(envelope.Payload) {
		return nil, fmt.Errorf("%w: checksum mismatch", domain.ErrSnapshotInvalid)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(envelope.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotInvalid, err)
	}
	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", domain.ErrSnapshotInvalid, snapshot.Version)
	}
	if snapshot.Records == nil {
		snapshot.Records = make(map[string]*domain.FileRecord)
	}
	return &snapshot, nil
}

// SaveSnapshot persists the current graph state through a blob store
func SaveSnapshot(ctx context.Context, store BlobStore, records map[string]*domain.FileRecord, routes []*domain.RouteDefinition) error {
	data, err := EncodeSnapshot(&Snapshot{
		Version:   snapshotVersion,
		CreatedAt: time.Now().UTC(),
		Records:   records,
		Routes:    routes,
	})
	if err != nil {
		return err
	}
	return store.Put(ctx, constants.SnapshotKey, data)
}

// LoadSnapshot retrieves and validates the persisted snapshot. Absence
// is reported as ErrNotFound, corruption as ErrSnapshotInvalid.
func LoadSnapshot(ctx context.Context, store BlobStore) (*Snapshot, error) {
	data, err := store.Get(ctx, constants.SnapshotKey)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(data)
}

// ClearSnapshot removes the persisted snapshot
func ClearSnapshot(ctx context.Context, store BlobStore) error {
	return store.Delete(ctx, constants.SnapshotKey)
}
