// Package services orchestrates the ledger against its collaborators: the
// local snapshot store, the payload loader and the remote sync client.
package services

import (
	"context"
	"fmt"

	"viagem/internal/core"
	"viagem/internal/ledger"
	applog "viagem/internal/log"

	"golang.org/x/sync/errgroup"
)

// SnapshotStore persists payload-stripped ledger snapshots locally. A
// single named entry is overwritten wholesale on every save.
type SnapshotStore interface {
	Save(snap core.Snapshot) error
	Load() (core.Snapshot, bool, error)
}

// PayloadLoader resolves an opaque payload reference (a file path in the
// CLI) to its binary content.
type PayloadLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// ReceiptInput is the metadata the intake form collects for one or more
// attached files.
type ReceiptInput struct {
	Category core.Category
	Date     core.Date
	Amount   core.Money
}

// LedgerService wraps ledger mutations so that every one of them is
// persisted to the snapshot store before the next user action. Losing the
// process between actions never loses data.
type LedgerService struct {
	led    *ledger.Ledger
	snaps  SnapshotStore
	loader PayloadLoader
	log    *applog.Logger
}

func NewLedgerService(snaps SnapshotStore, loader PayloadLoader, logger *applog.Logger) *LedgerService {
	return &LedgerService{
		led:    ledger.New(),
		snaps:  snaps,
		loader: loader,
		log:    logger,
	}
}

// Ledger exposes the underlying ledger. The sync client mutates it through
// here; everything else should stick to the service methods.
func (s *LedgerService) Ledger() *ledger.Ledger {
	return s.led
}

// Resume restores the ledger from the local snapshot, if one exists.
// Restored receipts carry no payloads.
func (s *LedgerService) Resume() (bool, error) {
	snap, ok, err := s.snaps.Load()
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := s.led.Restore(snap); err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	s.log.Info("Resumed ledger from snapshot",
		"traveler", snap.Trip.TravelerName,
		"receipts", len(snap.Receipts))
	return true, nil
}

// SetTripIdentity installs the trip identity and persists. A changed period
// drops receipts and the remote folder reference, and that reset is
// persisted too.
func (s *LedgerService) SetTripIdentity(trip core.TripIdentity) error {
	if err := s.led.SetTripIdentity(trip); err != nil {
		return err
	}
	return s.Persist()
}

// AddReceipt validates, appends and persists one receipt.
func (s *LedgerService) AddReceipt(in ReceiptInput, payload []byte, sourceName string) (core.Receipt, error) {
	r, err := s.led.AddReceipt(in.Category, in.Date, in.Amount, payload, sourceName)
	if err != nil {
		return core.Receipt{}, err
	}
	if err := s.Persist(); err != nil {
		return core.Receipt{}, err
	}
	return r, nil
}

// AttachFiles loads every referenced payload concurrently and appends a
// receipt per file as its load completes. Insertion order is completion
// order, not selection order; display and export follow it. The shared
// metadata is validated before any load starts so a bad date or amount
// rejects the whole batch up front.
func (s *LedgerService) AttachFiles(ctx context.Context, in ReceiptInput, refs []string) ([]core.Receipt, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	draft := core.Receipt{Category: in.Category, Date: in.Date, Amount: in.Amount, Payload: []byte{0}}
	if err := draft.Validate(s.led.Trip()); err != nil {
		return nil, err
	}

	type loadedFile struct {
		ref  string
		data []byte
	}
	loaded := make(chan loadedFile)
	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		g.Go(func() error {
			data, err := s.loader.Load(gctx, ref)
			if err != nil {
				return fmt.Errorf("load %s: %w", ref, err)
			}
			select {
			case loaded <- loadedFile{ref: ref, data: data}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	go func() {
		g.Wait()
		close(loaded)
	}()

	var added []core.Receipt
	for lf := range loaded {
		r, err := s.led.AddReceipt(in.Category, in.Date, in.Amount, lf.data, lf.ref)
		if err != nil {
			return added, fmt.Errorf("add receipt for %s: %w", lf.ref, err)
		}
		added = append(added, r)
	}
	if err := g.Wait(); err != nil {
		// Persist whatever made it in before the failure.
		if perr := s.Persist(); perr != nil {
			s.log.Error("Persist after partial attach failed", "error", perr)
		}
		return added, err
	}
	return added, s.Persist()
}

// ClearReceipts drops every receipt, keeping the trip identity, and
// persists the emptied ledger.
func (s *LedgerService) ClearReceipts() error {
	s.led.ClearReceipts()
	return s.Persist()
}

// Persist overwrites the local snapshot with the current ledger state.
func (s *LedgerService) Persist() error {
	if err := s.snaps.Save(s.led.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
