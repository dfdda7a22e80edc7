package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"viagem/internal/config"
	"viagem/internal/core"
	"viagem/internal/drive"
	gdrive "viagem/internal/drive/google"
	applog "viagem/internal/log"
	"viagem/internal/services"
	"viagem/internal/snapshot"
)

const usage = `usage: viagem <command> [flags]

commands:
  init     set the trip identity (traveler, period, budget)
  add      attach receipt files with a category, date and amount
  list     print the receipt list in display order
  status   print totals, remaining balance and budget tier
  sync     upload pending receipts and the history snapshot
  history  fetch the remote history snapshot for the current trip
  clear    drop all receipts (--all also forgets the trip identity)
`

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := snapshot.Open(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err, "path", cfg.SnapshotDBPath)
		os.Exit(1)
	}
	defer store.Close()

	svc := services.NewLedgerService(store, services.FileLoader{}, logger.WithComponent("ledger"))
	resumed, err := svc.Resume()
	if err != nil {
		logger.Error("Failed to resume ledger", "error", err)
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]
	if command != "init" && !resumed {
		fmt.Fprintln(os.Stderr, "no trip configured yet; run 'viagem init' first")
		os.Exit(1)
	}

	switch command {
	case "init":
		err = runInit(svc, args)
	case "add":
		err = runAdd(svc, args)
	case "list":
		err = runList(svc)
	case "status":
		err = runStatus(svc)
	case "sync":
		err = runSync(cfg, svc, args)
	case "history":
		err = runHistory(cfg, svc, args)
	case "clear":
		err = runClear(store, svc, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runInit(svc *services.LedgerService, args []string) error {
	fs := ff.NewFlagSet("viagem init")
	var (
		name   = fs.StringLong("name", "", "Traveler name")
		start  = fs.StringLong("start", "", "Trip start date (YYYY-MM-DD)")
		end    = fs.StringLong("end", "", "Trip end date (YYYY-MM-DD)")
		budget = fs.StringLong("budget", "0", "Trip budget, e.g. 500.00")
	)
	if err := parse(fs, args); err != nil {
		return err
	}

	startDate, err := core.ParseISODate(*start)
	if err != nil {
		return err
	}
	endDate, err := core.ParseISODate(*end)
	if err != nil {
		return err
	}
	budgetAmount, err := core.ParseMoney(*budget)
	if err != nil {
		return fmt.Errorf("budget: %w", err)
	}

	trip := core.TripIdentity{
		TravelerName: *name,
		Start:        startDate,
		End:          endDate,
		Budget:       budgetAmount,
	}
	if err := svc.SetTripIdentity(trip); err != nil {
		return err
	}
	fmt.Printf("trip set: %s, %s to %s, budget %s\n",
		trip.TravelerName, trip.Start.ISO(), trip.End.ISO(), trip.Budget.Format())
	return nil
}

func runAdd(svc *services.LedgerService, args []string) error {
	fs := ff.NewFlagSet("viagem add")
	var (
		category = fs.StringLong("category", "other", "Category: coffee, lunch, dinner, laundry or other")
		date     = fs.StringLong("date", "", "Expense date (YYYY-MM-DD)")
		amount   = fs.StringLong("amount", "", "Expense amount, e.g. 15.50")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	files := fs.GetArgs()
	if len(files) == 0 {
		return fmt.Errorf("no receipt files given")
	}

	expenseDate, err := core.ParseISODate(*date)
	if err != nil {
		return err
	}
	expenseAmount, err := core.ParseMoney(*amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	in := services.ReceiptInput{
		Category: core.ParseCategory(*category),
		Date:     expenseDate,
		Amount:   expenseAmount,
	}
	added, err := svc.AttachFiles(context.Background(), in, files)
	for _, r := range added {
		fmt.Printf("added %s (%s, %s)\n", r.FileName, r.Category, r.Amount.Format())
	}
	return err
}

func runList(svc *services.LedgerService) error {
	receipts := svc.Ledger().Receipts()
	if len(receipts) == 0 {
		fmt.Println("no receipts")
		return nil
	}
	for _, r := range receipts {
		status := "pending"
		if r.Sent {
			status = "sent"
		}
		fmt.Printf("%s  %-8s %8s  %-7s %s\n", r.Date.ISO(), r.Category, r.Amount.Format(), status, r.FileName)
	}
	return nil
}

func runStatus(svc *services.LedgerService) error {
	led := svc.Ledger()
	totals := led.Totals()
	for _, ca := range totals.ByCategory {
		if ca.Amount.IsZero() {
			continue
		}
		fmt.Printf("%-8s %8s\n", ca.Category, ca.Amount.Format())
	}
	fmt.Printf("total     %8s\n", totals.Grand.Format())
	fmt.Printf("remaining %8s (%s)\n", led.Remaining().Format(), led.Tier())
	return nil
}

func runSync(cfg *config.Config, svc *services.LedgerService, args []string) error {
	fs := ff.NewFlagSet("viagem sync")
	token := fs.StringLong("token", cfg.DriveAccessToken, "Bearer token from the authorization flow (or DRIVE_ACCESS_TOKEN)")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()

	syncer := newSyncer(*token)
	report, err := syncer.Sync(ctx, svc.Ledger())
	// The ledger may have flipped sent flags even when the attempt failed
	// partway; persist what we know before reporting.
	if perr := svc.Persist(); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %d of %d pending receipt(s)\n", report.Uploaded, report.Attempted)
	for _, f := range report.Failed {
		fmt.Printf("  still pending: %s (%v)\n", f.FileName, f.Err)
	}
	if report.Folder.WebURL != "" {
		fmt.Printf("folder: %s\n", report.Folder.WebURL)
	}
	return nil
}

func runHistory(cfg *config.Config, svc *services.LedgerService, args []string) error {
	fs := ff.NewFlagSet("viagem history")
	token := fs.StringLong("token", cfg.DriveAccessToken, "Bearer token from the authorization flow (or DRIVE_ACCESS_TOKEN)")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()

	syncer := newSyncer(*token)
	snap, ok, err := syncer.LoadHistory(ctx, svc.Ledger().Trip())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no remote history for this trip yet")
		return nil
	}
	fmt.Printf("trip %s, %s to %s, budget %s\n",
		snap.Trip.TravelerName, snap.Trip.Start.ISO(), snap.Trip.End.ISO(), snap.Trip.Budget.Format())
	for _, r := range snap.Receipts {
		fmt.Printf("%s  %-8s %8s  %s\n", r.Date.ISO(), r.Category, r.Amount.Format(), r.FileName)
	}
	return nil
}

func runClear(store *snapshot.Store, svc *services.LedgerService, args []string) error {
	fs := ff.NewFlagSet("viagem clear")
	all := fs.BoolLong("all", "Also forget the trip identity and remote folder")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *all {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("ledger cleared; run 'viagem init' to start a new trip")
		return nil
	}
	if err := svc.ClearReceipts(); err != nil {
		return err
	}
	fmt.Println("receipts cleared")
	return nil
}

func newSyncer(token string) *services.Syncer {
	return services.NewSyncer(
		services.StaticTokenProvider(token),
		func(ctx context.Context, token string) (drive.Store, error) {
			return gdrive.NewWithToken(ctx, token)
		},
		services.FileLoader{},
	)
}

func parse(fs *ff.FlagSet, args []string) error {
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("VIAGEM")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}
	return nil
}
