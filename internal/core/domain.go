package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	Coffee  Category = "coffee"
	Lunch   Category = "lunch"
	Dinner  Category = "dinner"
	Laundry Category = "laundry"
	Other   Category = "other"
)

type (
	// Category is the closed set of expense kinds a receipt can carry.
	Category string

	// TripIdentity identifies one trip: who travelled, over which period,
	// and with what budget. It is set once per session and only replaced
	// wholesale on an explicit period change.
	TripIdentity struct {
		TravelerName string `json:"travelerName"`
		Start        Date   `json:"start"`
		End          Date   `json:"end"`
		Budget       Money  `json:"budget"`
	}

	// Receipt is one categorized, dated expense with an optionally attached
	// binary payload. The payload is dropped after a successful upload; the
	// metadata stays for totals and export. SourceRef remembers where the
	// payload came from so a later session can re-load it for upload;
	// unlike the payload itself it survives the snapshot.
	Receipt struct {
		Category  Category `json:"category"`
		Date      Date     `json:"date"`
		Amount    Money    `json:"amount"`
		FileName  string   `json:"fileName"`
		SourceRef string   `json:"sourceRef,omitempty"`
		Sent      bool     `json:"sent"`
		Payload   []byte   `json:"-"`
	}

	// RemoteFolderRef points at the trip's folder in the remote store. It is
	// resolved lazily, cached for the session and invalidated whenever the
	// trip period changes.
	RemoteFolderRef struct {
		FolderID string `json:"folderId"`
		WebURL   string `json:"webUrl"`
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyTravelerName = errors.New("empty traveler name")
	ErrInvalidPeriod     = errors.New("trip start date is after end date")
	ErrNegativeBudget    = errors.New("budget cannot be negative")
	ErrDateOutOfPeriod   = errors.New("receipt date outside trip period")
	ErrMissingPayload    = errors.New("receipt has no payload")
)

// Categories lists every named category in display order. Other is last and
// collects receipts whose category string did not match a named bucket.
func Categories() []Category {
	return []Category{Coffee, Lunch, Dinner, Laundry, Other}
}

// ParseCategory maps a free-form category string onto the closed enum.
// Unrecognized values land in Other rather than being dropped, so their
// amounts always show up in a named bucket.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case Coffee, Lunch, Dinner, Laundry, Other:
		return c
	}
	return Other
}

func (c Category) String() string {
	return string(c)
}

// Validate checks the trip identity invariants: non-empty traveler name,
// start not after end, non-negative budget.
func (t TripIdentity) Validate() error {
	if strings.TrimSpace(t.TravelerName) == "" {
		return ErrEmptyTravelerName
	}
	if t.Start.IsZero() || t.End.IsZero() {
		return ErrInvalidDate
	}
	if t.Start.After(t.End) {
		return ErrInvalidPeriod
	}
	if t.Budget.Cents < 0 {
		return ErrNegativeBudget
	}
	return nil
}

// SamePeriod reports whether both identities cover the same date range.
// A changed period invalidates receipts and the remote folder reference.
func (t TripIdentity) SamePeriod(other TripIdentity) bool {
	return t.Start.Equal(other.Start) && t.End.Equal(other.End)
}

// FolderName derives the remote folder name for this trip. It depends only
// on the traveler name and start date so the same trip maps to the same
// folder across devices and sessions.
func (t TripIdentity) FolderName() string {
	return fmt.Sprintf("%s_%s", SanitizeName(t.TravelerName), t.Start.Display())
}

// Validate checks a receipt against its owning trip: date inside the trip
// period, positive amount, payload attached.
func (r Receipt) Validate(trip TripIdentity) error {
	if r.Date.IsZero() || !r.Date.Within(trip.Start, trip.End) {
		return ErrDateOutOfPeriod
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if len(r.Payload) == 0 {
		return ErrMissingPayload
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeName replaces whitespace runs with underscores so the name is safe
// inside remote object keys.
func SanitizeName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
}

// ReceiptFileName derives the remote object name for a receipt: sanitized
// traveler name, display date and a sequence disambiguator, keeping the
// source file's extension.
func ReceiptFileName(traveler string, date Date, seq int, sourceName string) string {
	ext := strings.TrimPrefix(filepath.Ext(sourceName), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%s_%03d.%s", SanitizeName(traveler), date.Display(), seq, ext)
}
