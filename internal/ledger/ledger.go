// Package ledger implements the in-memory receipt ledger: the trip identity,
// the ordered receipt list and the derived totals and remaining balance.
//
// The ledger is the single owner of its receipts. The UI layer and report
// renderers only ever see copies through the read model; the sync client is
// the only collaborator allowed to flip a receipt's sent flag.
package ledger

import (
	"fmt"

	"viagem/internal/core"
)

// Ledger holds one trip's state. All access is single-goroutine by design:
// mutations happen synchronously in response to discrete user actions.
type Ledger struct {
	trip     core.TripIdentity
	receipts []core.Receipt
	folder   *core.RemoteFolderRef
	seq      int
}

// New returns an empty ledger with no trip identity set.
func New() *Ledger {
	return &Ledger{}
}

// SetTripIdentity validates and installs the trip identity. Changing the
// trip period drops all receipts, the cached remote folder reference and
// the file name sequence; changing only name or budget keeps them.
func (l *Ledger) SetTripIdentity(trip core.TripIdentity) error {
	if err := trip.Validate(); err != nil {
		return err
	}
	if !trip.SamePeriod(l.trip) {
		l.receipts = nil
		l.folder = nil
		l.seq = 0
	}
	l.trip = trip
	return nil
}

// Trip returns the current trip identity.
func (l *Ledger) Trip() core.TripIdentity {
	return l.trip
}

// AddReceipt validates the receipt against the trip period, derives its
// deterministic remote file name and appends it. Insertion order is the
// display and export order and is preserved.
func (l *Ledger) AddReceipt(category core.Category, date core.Date, amount core.Money, payload []byte, sourceName string) (core.Receipt, error) {
	r := core.Receipt{
		Category:  core.ParseCategory(string(category)),
		Date:      date,
		Amount:    amount,
		SourceRef: sourceName,
		Payload:   payload,
	}
	if err := r.Validate(l.trip); err != nil {
		return core.Receipt{}, err
	}
	l.seq++
	r.FileName = core.ReceiptFileName(l.trip.TravelerName, date, l.seq, sourceName)
	l.receipts = append(l.receipts, r)
	return r, nil
}

// Receipts returns the ordered receipt list as copies with payloads
// omitted. This is the read model consumed by display and export.
func (l *Ledger) Receipts() []core.Receipt {
	out := make([]core.Receipt, len(l.receipts))
	for i, r := range l.receipts {
		r.Payload = nil
		out[i] = r
	}
	return out
}

// Len returns the number of receipts.
func (l *Ledger) Len() int {
	return len(l.receipts)
}

// Totals recomputes per-category sums and the grand total by full
// traversal.
func (l *Ledger) Totals() core.Totals {
	return core.ComputeTotals(l.receipts)
}

// Remaining returns the floor-clamped remaining balance. Spending past the
// budget is allowed; the remainder just bottoms out at zero.
func (l *Ledger) Remaining() core.Money {
	rem := l.trip.Budget.Sub(l.Totals().Grand)
	if rem.Cents < 0 {
		return core.Money{}
	}
	return rem
}

// Tier classifies the remaining balance against the budget.
func (l *Ledger) Tier() core.Tier {
	return core.ClassifyBudget(l.Remaining(), l.trip.Budget)
}

// Pending returns the receipts still awaiting upload: not sent, with
// either the payload attached or a source reference it can be re-loaded
// from. The returned copies keep their payloads.
func (l *Ledger) Pending() []core.Receipt {
	var out []core.Receipt
	for _, r := range l.receipts {
		if !r.Sent && (len(r.Payload) > 0 || r.SourceRef != "") {
			out = append(out, r)
		}
	}
	return out
}

// MarkSent flips the named receipt to sent and drops its payload and
// source reference. Only the sync client calls this, after a successful
// upload.
func (l *Ledger) MarkSent(fileName string) error {
	for i := range l.receipts {
		if l.receipts[i].FileName == fileName {
			l.receipts[i].Sent = true
			l.receipts[i].Payload = nil
			l.receipts[i].SourceRef = ""
			return nil
		}
	}
	return fmt.Errorf("no receipt named %q", fileName)
}

// ClearReceipts drops every receipt and resets the file name sequence,
// keeping the trip identity and the remote folder reference. This is the
// explicit-clear lifecycle event; the other one is a period change.
func (l *Ledger) ClearReceipts() {
	l.receipts = nil
	l.seq = 0
}

// Folder returns the cached remote folder reference, or nil if the folder
// has not been resolved this session.
func (l *Ledger) Folder() *core.RemoteFolderRef {
	if l.folder == nil {
		return nil
	}
	ref := *l.folder
	return &ref
}

// SetFolder caches the resolved remote folder reference.
func (l *Ledger) SetFolder(ref core.RemoteFolderRef) {
	l.folder = &ref
}

// Snapshot projects the ledger to its serializable, payload-stripped form.
func (l *Ledger) Snapshot() core.Snapshot {
	return core.Snapshot{
		Trip:     l.trip,
		Receipts: l.Receipts(),
	}
}

// Restore replaces the ledger state from a snapshot. Restored receipts
// have no payloads; unsent ones keep their source reference and the sync
// client re-loads the payload from it at upload time.
func (l *Ledger) Restore(snap core.Snapshot) error {
	if err := snap.Trip.Validate(); err != nil {
		return fmt.Errorf("snapshot trip identity: %w", err)
	}
	l.trip = snap.Trip
	l.receipts = append([]core.Receipt(nil), snap.Receipts...)
	l.folder = nil
	l.seq = len(snap.Receipts)
	return nil
}
