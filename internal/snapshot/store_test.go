package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"viagem/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "viagem.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot() core.Snapshot {
	return core.Snapshot{
		Trip: core.TripIdentity{
			TravelerName: "Ana",
			Start:        core.NewDate(2024, 5, 1),
			End:          core.NewDate(2024, 5, 5),
			Budget:       core.Money{Cents: 50000},
		},
		Receipts: []core.Receipt{
			{Category: core.Coffee, Date: core.NewDate(2024, 5, 2), Amount: core.Money{Cents: 1550}, FileName: "Ana_02-05-2024_001.jpg"},
			{Category: core.Dinner, Date: core.NewDate(2024, 5, 3), Amount: core.Money{Cents: 8000}, FileName: "Ana_03-05-2024_002.jpg", Sent: true},
		},
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "viagem.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
	if err := store.Save(testSnapshot()); err != nil {
		t.Errorf("Save: %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("Load on fresh store reported a snapshot")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	in := testSnapshot()
	// Payloads must never reach the persisted form.
	in.Receipts[0].Payload = []byte("raw image bytes")

	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load found no snapshot after Save")
	}

	if out.Trip.TravelerName != in.Trip.TravelerName ||
		!out.Trip.SamePeriod(in.Trip) ||
		out.Trip.Budget != in.Trip.Budget {
		t.Errorf("trip = %+v, want %+v", out.Trip, in.Trip)
	}
	if len(out.Receipts) != 2 {
		t.Fatalf("receipt count = %d, want 2", len(out.Receipts))
	}
	for i, want := range in.Receipts {
		got := out.Receipts[i]
		if got.Category != want.Category || !got.Date.Equal(want.Date) ||
			got.Amount != want.Amount || got.FileName != want.FileName || got.Sent != want.Sent {
			t.Errorf("receipt %d = %+v, want %+v", i, got, want)
		}
		if len(got.Payload) != 0 {
			t.Errorf("receipt %d payload was persisted", i)
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	first := testSnapshot()
	if err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := first
	second.Receipts = nil
	second.Trip.TravelerName = "Bruno"
	if err := store.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if out.Trip.TravelerName != "Bruno" || len(out.Receipts) != 0 {
		t.Errorf("Load() after overwrite = %+v", out)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(testSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("snapshot survived Clear")
	}
}
