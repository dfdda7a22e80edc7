package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"viagem/internal/core"
	"viagem/internal/drive"
	"viagem/internal/ledger"
)

// maxFolderRenames bounds the rename-on-collision loop during folder
// creation.
const maxFolderRenames = 5

// TokenProvider supplies the bearer token for one sync attempt. The
// authorization dance (popup, redirect, token capture) lives entirely
// behind this boundary; cancelling ctx is the explicit way out when the
// user abandons the authorization window.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a pre-acquired token, typically handed in via
// flag or environment.
type StaticTokenProvider string

func (p StaticTokenProvider) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(p)) == "" {
		return "", errors.New("no access token configured")
	}
	return string(p), nil
}

// StoreFactory connects a remote store from a bearer token. Production
// wires the Drive adapter; tests wire the in-memory store.
type StoreFactory func(ctx context.Context, token string) (drive.Store, error)

// UploadError records one failed receipt upload.
type UploadError struct {
	FileName string
	Err      error
}

func (e UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

// Report summarizes one sync attempt. Failed uploads are isolated: the
// receipts behind them stay pending and a later sync retries just those.
type Report struct {
	Attempted int
	Uploaded  int
	Failed    []UploadError
	Folder    core.RemoteFolderRef
}

// Syncer mirrors a ledger into the remote store: one folder per trip, one
// object per receipt, one history snapshot per folder. Receipts restored
// from a snapshot carry no payload; the loader re-loads them from their
// source reference at upload time.
type Syncer struct {
	tokens TokenProvider
	stores StoreFactory
	loader PayloadLoader
}

func NewSyncer(tokens TokenProvider, stores StoreFactory, loader PayloadLoader) *Syncer {
	return &Syncer{tokens: tokens, stores: stores, loader: loader}
}

// Sync runs one full sync attempt: authenticate, resolve or create the trip
// folder, upload pending receipt payloads sequentially, then persist the
// history snapshot.
//
// Folder resolution failure aborts the attempt with nothing uploaded.
// Per-file upload failures are recorded in the report and skipped. A
// history write failure is returned as the error alongside a report whose
// upload results still stand.
func (s *Syncer) Sync(ctx context.Context, led *ledger.Ledger) (Report, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("acquire token: %w", err)
	}
	store, err := s.stores(ctx, token)
	if err != nil {
		return Report{}, fmt.Errorf("connect remote store: %w", err)
	}

	folder, err := s.resolveFolder(ctx, store, led)
	if err != nil {
		return Report{}, err
	}
	report := Report{Folder: folder}

	pending := led.Pending()
	report.Attempted = len(pending)
	for _, r := range pending {
		payload := r.Payload
		if len(payload) == 0 {
			payload, err = s.loader.Load(ctx, r.SourceRef)
			if err != nil {
				slog.WarnContext(ctx, "Receipt payload re-load failed", "file", r.FileName, "source", r.SourceRef, "error", err)
				report.Failed = append(report.Failed, UploadError{FileName: r.FileName, Err: err})
				continue
			}
		}
		if err := store.Upload(ctx, folder.FolderID, r.FileName, payload); err != nil {
			slog.WarnContext(ctx, "Receipt upload failed", "file", r.FileName, "error", err)
			report.Failed = append(report.Failed, UploadError{FileName: r.FileName, Err: err})
			continue
		}
		if err := led.MarkSent(r.FileName); err != nil {
			// Upload stuck remotely but the receipt vanished locally.
			slog.ErrorContext(ctx, "Uploaded receipt missing from ledger", "file", r.FileName, "error", err)
			continue
		}
		report.Uploaded++
		slog.InfoContext(ctx, "Receipt uploaded", "file", r.FileName)
	}

	if err := store.WriteHistory(ctx, folder.FolderID, led.Snapshot()); err != nil {
		// Already-uploaded receipts are not rolled back.
		return report, fmt.Errorf("persist history: %w", err)
	}
	return report, nil
}

// LoadHistory fetches the remote history snapshot for the trip. A missing
// folder or history file is a normal first-run outcome, reported as
// ok=false with no error.
func (s *Syncer) LoadHistory(ctx context.Context, trip core.TripIdentity) (core.Snapshot, bool, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("acquire token: %w", err)
	}
	store, err := s.stores(ctx, token)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("connect remote store: %w", err)
	}
	folder, err := store.FindFolder(ctx, trip.FolderName())
	if errors.Is(err, drive.ErrNotFound) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("resolve folder: %w", err)
	}
	snap, err := store.ReadHistory(ctx, folder.FolderID)
	if errors.Is(err, drive.ErrNotFound) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("read history: %w", err)
	}
	return snap, true, nil
}

// resolveFolder returns the trip folder, preferring the session cache, then
// an existing remote folder, then creation. Creation renames on collision
// rather than adopting a same-named folder that appeared mid-flight.
func (s *Syncer) resolveFolder(ctx context.Context, store drive.Store, led *ledger.Ledger) (core.RemoteFolderRef, error) {
	if cached := led.Folder(); cached != nil {
		return *cached, nil
	}
	name := led.Trip().FolderName()

	ref, err := store.FindFolder(ctx, name)
	if err == nil {
		led.SetFolder(ref)
		return ref, nil
	}
	if !errors.Is(err, drive.ErrNotFound) {
		return core.RemoteFolderRef{}, fmt.Errorf("resolve folder %q: %w", name, err)
	}

	candidate := name
	for attempt := 1; ; attempt++ {
		ref, err = store.CreateFolder(ctx, candidate)
		if err == nil {
			led.SetFolder(ref)
			return ref, nil
		}
		if !errors.Is(err, drive.ErrFolderConflict) {
			return core.RemoteFolderRef{}, fmt.Errorf("create folder %q: %w", candidate, err)
		}
		if attempt >= maxFolderRenames {
			return core.RemoteFolderRef{}, fmt.Errorf("create folder %q: %w after %d renames", name, drive.ErrFolderConflict, attempt)
		}
		candidate = fmt.Sprintf("%s (%d)", name, attempt+1)
		slog.WarnContext(ctx, "Folder name collision, renaming", "name", name, "candidate", candidate)
	}
}
