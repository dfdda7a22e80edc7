// Package memory is an in-memory remote store used by tests and the local
// development backend. It honors the same error contract as the Drive
// adapter and can inject per-file upload failures.
package memory

import (
	"context"
	"fmt"
	"sync"

	"viagem/internal/core"
	"viagem/internal/drive"
)

type folder struct {
	ref   core.RemoteFolderRef
	files map[string][]byte
}

type Store struct {
	mu      sync.Mutex
	nextID  int
	folders map[string]*folder // keyed by folder name

	// FailUpload makes Upload fail for the given file names.
	failUpload map[string]error

	// history snapshots keyed by folder ID
	histories map[string]core.Snapshot
}

// Ensure interface conformance
var _ drive.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		folders:    map[string]*folder{},
		failUpload: map[string]error{},
		histories:  map[string]core.Snapshot{},
	}
}

// FailUpload arranges for the next uploads of the named file to fail with
// err. Pass a nil error to clear the injection.
func (s *Store) FailUpload(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failUpload, name)
		return
	}
	s.failUpload[name] = err
}

func (s *Store) FindFolder(_ context.Context, name string) (core.RemoteFolderRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[name]
	if !ok {
		return core.RemoteFolderRef{}, fmt.Errorf("folder %q: %w", name, drive.ErrNotFound)
	}
	return f.ref, nil
}

func (s *Store) CreateFolder(_ context.Context, name string) (core.RemoteFolderRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[name]; ok {
		return core.RemoteFolderRef{}, fmt.Errorf("folder %q: %w", name, drive.ErrFolderConflict)
	}
	s.nextID++
	ref := core.RemoteFolderRef{
		FolderID: fmt.Sprintf("folder-%d", s.nextID),
		WebURL:   fmt.Sprintf("mem://folders/%d", s.nextID),
	}
	s.folders[name] = &folder{ref: ref, files: map[string][]byte{}}
	return ref, nil
}

func (s *Store) Upload(_ context.Context, folderID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failUpload[name]; ok {
		return err
	}
	f := s.folderByID(folderID)
	if f == nil {
		return fmt.Errorf("folder %q: %w", folderID, drive.ErrNotFound)
	}
	f.files[name] = append([]byte(nil), data...)
	return nil
}

func (s *Store) WriteHistory(_ context.Context, folderID string, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.folderByID(folderID) == nil {
		return fmt.Errorf("folder %q: %w", folderID, drive.ErrNotFound)
	}
	s.histories[folderID] = snap
	return nil
}

func (s *Store) ReadHistory(_ context.Context, folderID string) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.histories[folderID]
	if !ok {
		return core.Snapshot{}, fmt.Errorf("%s: %w", drive.HistoryFileName, drive.ErrNotFound)
	}
	return snap, nil
}

// FolderCount returns how many folders exist, for idempotency assertions.
func (s *Store) FolderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.folders)
}

// File returns the stored content of {folderID}/{name}.
func (s *Store) File(folderID, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.folderByID(folderID)
	if f == nil {
		return nil, false
	}
	data, ok := f.files[name]
	return data, ok
}

func (s *Store) folderByID(id string) *folder {
	for _, f := range s.folders {
		if f.ref.FolderID == id {
			return f
		}
	}
	return nil
}
