// Package diskcache implements the on-disk result store: a zstd-compressed
// JSON file holding serialized query results from a previous session, keyed
// by the dependency-node index that session assigned.
package diskcache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// FormatVersion is bumped whenever the file layout changes. A version
// mismatch makes the whole file unusable, which is fine: the engine then
// recomputes everything, exactly as on a cold start.
const FormatVersion = 1

// Store implements ports.DiskStore backed by a single compressed file.
// Corruption anywhere in the file degrades to an empty store; the store
// never fails a session, it only makes it slower.
type Store struct {
	path string
	log  ports.Logger

	mu       sync.RWMutex
	entries  map[domain.SerializedDepNodeIndex]storeEntry
	previous map[domain.Fingerprint]domain.SerializedDepNodeIndex
}

type storeEntry struct {
	KeyFingerprint string `json:"keyFingerprint"`
	Payload        []byte `json:"payload"`
}

type storeFile struct {
	Version int                                          `json:"version"`
	Entries map[domain.SerializedDepNodeIndex]storeEntry `json:"entries"`
}

// Open reads the store at path. A missing file yields an empty store. Any
// decode failure (compression, JSON, version skew) also yields an empty
// store, with a warning, never an error: the on-disk cache is advisory.
func Open(path string, log ports.Logger) (*Store, error) {
	s := &Store{
		path:     filepath.Clean(path),
		log:      log,
		entries:  make(map[domain.SerializedDepNodeIndex]storeEntry),
		previous: make(map[domain.Fingerprint]domain.SerializedDepNodeIndex),
	}

	data, err := os.ReadFile(s.path) //nolint:gosec // Path is cleaned and provided by trusted caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", s.path)
	}

	if err := s.decode(data); err != nil {
		s.log.Warn("disk cache unreadable, starting cold",
			"path", s.path, "reason", err.Error())
		s.entries = make(map[domain.SerializedDepNodeIndex]storeEntry)
		s.previous = make(map[domain.Fingerprint]domain.SerializedDepNodeIndex)
	}
	return s, nil
}

func (s *Store) decode(data []byte) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return err
	}

	var file storeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return err
	}
	if file.Version != FormatVersion {
		err := zerr.With(zerr.New("disk cache format version mismatch"), "found", file.Version)
		return zerr.With(err, "want", FormatVersion)
	}

	for idx, e := range file.Entries {
		fp, err := domain.ParseFingerprint(e.KeyFingerprint)
		if err != nil {
			return err
		}
		s.entries[idx] = e
		s.previous[fp] = idx
	}
	return nil
}

// Get retrieves the payload stored under a previous session's index.
func (s *Store) Get(idx domain.SerializedDepNodeIndex) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[idx]
	if !ok {
		return nil, false
	}
	return e.Payload, true
}

// Put stores a payload under the current session's index.
func (s *Store) Put(idx domain.SerializedDepNodeIndex, keyFP domain.Fingerprint, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[idx] = storeEntry{
		KeyFingerprint: keyFP.String(),
		Payload:        payload,
	}
	s.previous[keyFP] = idx
	return nil
}

// PreviousIndices returns a copy of the key-fingerprint to index table.
func (s *Store) PreviousIndices() map[domain.Fingerprint]domain.SerializedDepNodeIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.Fingerprint]domain.SerializedDepNodeIndex, len(s.previous))
	for fp, idx := range s.previous {
		out[fp] = idx
	}
	return out
}

// Entries returns a snapshot of all stored entries, ordered by index.
func (s *Store) Entries() []domain.DiskEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DiskEntry, 0, len(s.entries))
	for idx, e := range s.entries {
		fp, err := domain.ParseFingerprint(e.KeyFingerprint)
		if err != nil {
			continue
		}
		out = append(out, domain.DiskEntry{
			Index:          idx,
			KeyFingerprint: fp,
			Size:           len(e.Payload),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// Save writes the store to disk, creating parent directories as needed.
func (s *Store) Save() error {
	s.mu.RLock()
	file := storeFile{
		Version: FormatVersion,
		Entries: make(map[domain.SerializedDepNodeIndex]storeEntry, len(s.entries)),
	}
	for idx, e := range s.entries {
		file.Entries[idx] = e
	}
	s.mu.RUnlock()

	raw, err := json.Marshal(file)
	if err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}
	data := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreCreateFailed, err), "path", s.path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	return nil
}

var _ ports.DiskStore = (*Store)(nil)

// Opener implements ports.StoreOpener.
type Opener struct {
	log ports.Logger
}

// NewOpener creates an Opener that logs recoveries through log.
func NewOpener(log ports.Logger) *Opener {
	return &Opener{log: log}
}

// Open opens the store at path.
func (o *Opener) Open(path string) (ports.DiskStore, error) {
	return Open(path, o.log)
}

var _ ports.StoreOpener = (*Opener)(nil)
