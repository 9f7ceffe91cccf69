package ports

import "go.trai.ch/memo/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=disk_store.go -destination=mocks/mock_disk_store.go -package=mocks

// DiskStore persists serialized query results across sessions, keyed by the
// dependency-node index the producing session assigned.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Get never errors; corrupt or missing entries are misses. The engine
//     falls back to a live computation on any miss.
type DiskStore interface {
	// Get retrieves the payload stored under a previous session's index.
	Get(idx domain.SerializedDepNodeIndex) ([]byte, bool)

	// Put stores a payload under the current session's index for the key
	// with the given fingerprint.
	Put(idx domain.SerializedDepNodeIndex, keyFP domain.Fingerprint, payload []byte) error

	// PreviousIndices returns the key-fingerprint to index table, used to
	// seed the dependency graph at session start.
	PreviousIndices() map[domain.Fingerprint]domain.SerializedDepNodeIndex

	// Entries returns a snapshot of all stored entries, ordered by index.
	Entries() []domain.DiskEntry

	// Save flushes the store to disk.
	Save() error
}

// StoreOpener opens a DiskStore at a path. A missing or unreadable file
// yields an empty store, not an error.
type StoreOpener interface {
	Open(path string) (DiskStore, error)
}

// SettingsLoader reads engine settings from a config file.
type SettingsLoader interface {
	// Load reads and validates settings from the given path.
	Load(path string) (*domain.Settings, error)
}
