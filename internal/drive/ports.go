// Package drive defines the ports for the remote cloud-drive store the sync
// client talks to, plus the error contract shared by its adapters.
package drive

import (
	"context"
	"errors"

	"viagem/internal/core"
)

// HistoryFileName is the well-known object name of the trip history
// snapshot inside the trip folder. It is a wire contract shared with every
// client that reads the folder, so it keeps its original name.
const HistoryFileName = "historico.json"

var (
	// ErrNotFound signals an absent folder or file. History-load treats it
	// as a normal first-run outcome, never as a failure.
	ErrNotFound = errors.New("not found")

	// ErrFolderConflict signals that a folder with the requested name
	// appeared between lookup and creation. The sync client reacts by
	// renaming, never by overwriting.
	ErrFolderConflict = errors.New("folder already exists")
)

// Ports for the remote store adapters.
type (
	// FolderResolver finds and creates trip folders by their deterministic
	// name.
	FolderResolver interface {
		// FindFolder looks up a folder by exact name. Returns ErrNotFound
		// if no such folder exists.
		FindFolder(ctx context.Context, name string) (core.RemoteFolderRef, error)

		// CreateFolder creates a folder with the given name. Returns
		// ErrFolderConflict if one appeared concurrently.
		CreateFolder(ctx context.Context, name string) (core.RemoteFolderRef, error)
	}

	// Uploader stores a receipt payload under {folder}/{name}. Uploading
	// the same name twice overwrites, so retries are idempotent.
	Uploader interface {
		Upload(ctx context.Context, folderID, name string, data []byte) error
	}

	// HistoryStore reads and writes the trip history snapshot,
	// last-writer-wins.
	HistoryStore interface {
		WriteHistory(ctx context.Context, folderID string, snap core.Snapshot) error

		// ReadHistory returns ErrNotFound when no history file exists yet.
		ReadHistory(ctx context.Context, folderID string) (core.Snapshot, error)
	}

	// Store is the full remote surface the sync client needs.
	Store interface {
		FolderResolver
		Uploader
		HistoryStore
	}
)
