// Package app is the application layer between the CLI and the detection,
// plan and transaction packages. It constructs all dependencies from config
// and exposes the high-level operations the commands call.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"tripsort/internal/config"
	"tripsort/internal/detector"
	"tripsort/internal/mapping"
	"tripsort/internal/orchestrator"
	"tripsort/internal/organizer"
	"tripsort/internal/scanner"
	"tripsort/internal/txlog"
)

// App wires config, store, transaction log and orchestrator together.
// The caller must call Close when done.
type App struct {
	cfg     *config.Config
	store   txlog.Store
	log     *txlog.Log
	orch    *orchestrator.Orchestrator
	logger  txlog.Logger
	logFile *os.File
}

// New creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Detect", "Apply").
func New(cfg *config.Config, operation string, verbose bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := txlog.NewStoreFromType(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logDir := filepath.Join(cfg.RootPath, ".tripsort", "log")
	slogger, logFile, err := newLogger(logDir, opID, verbose)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	logger := &slogAdapter{l: slogger}
	log := txlog.NewLog(store, logger, txlog.RealClock{}, txlog.UUIDGenerator{})

	return &App{
		cfg:     cfg,
		store:   store,
		log:     log,
		orch:    orchestrator.New(log, logger),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Close releases the log file and any store resources.
func (a *App) Close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
	closeStore(a.store)
}

func closeStore(store txlog.Store) {
	if c, ok := store.(io.Closer); ok {
		c.Close()
	}
}

// DetectResult is the outcome of a detection pass over the trip root.
type DetectResult struct {
	Listing  *scanner.RootListing
	Mappings []mapping.FolderMapping
}

// Detect scans the trip root and infers a day mapping for every candidate
// subfolder. progress, which may be nil, reports the per-folder photo count
// so the CLI can show a progress indicator.
func (a *App) Detect(ctx context.Context, progress scanner.Progress) (*DetectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listing, err := scanner.ScanRootProgress(a.cfg.RootPath, progress)
	if err != nil {
		return nil, err
	}

	mappings := detector.Detect(listing.Folders, detector.Options{
		PhotoCounts: listing.PhotoCounts,
		ProjectName: a.cfg.ProjectName,
		TripStart:   a.cfg.TripStart,
	})

	a.logger.Debug("detection pass complete",
		"root", a.cfg.RootPath,
		"folders", len(listing.Folders),
		"mappings", len(mappings))

	return &DetectResult{Listing: listing, Mappings: mappings}, nil
}

// ApplyOutcome combines the recorded transaction with what actually happened
// on disk. Exec is nil for dry runs.
type ApplyOutcome struct {
	TransactionID string
	Summary       string
	Changes       mapping.Changeset
	Exec          *organizer.ExecResult
}

// Apply turns reviewed mappings into folder operations. Skipped mappings are
// filtered out first. A dry run computes the same plan and summary but
// neither touches the filesystem nor records a transaction.
func (a *App) Apply(ctx context.Context, mappings []mapping.FolderMapping, dryRun bool) (*ApplyOutcome, error) {
	active := mapping.Active(mappings)

	var snapshot *txlog.Snapshot
	if !dryRun {
		var err error
		snapshot, err = organizer.CaptureSnapshot(a.cfg.RootPath)
		if err != nil {
			return nil, fmt.Errorf("capturing snapshot: %w", err)
		}
	}

	result, err := a.orch.Apply(ctx, a.cfg.ProjectName, a.cfg.RootPath, active, snapshot, dryRun)
	if err != nil {
		return nil, err
	}

	outcome := &ApplyOutcome{
		TransactionID: result.TransactionID,
		Summary:       result.Summary,
		Changes:       result.Changes,
	}

	if !dryRun {
		exec, err := organizer.Execute(a.cfg.RootPath, result.Changes)
		if err != nil {
			return nil, err
		}
		outcome.Exec = exec
	}

	return outcome, nil
}

// UndoOutcome reports what an undo reversed on disk and in the log.
type UndoOutcome struct {
	Summary string
	Restore *organizer.RestoreResult
}

// Undo restores the folder state recorded under the given transaction id and
// removes the record so it cannot be undone twice.
func (a *App) Undo(ctx context.Context, transactionID string) (*UndoOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Fetch before Undo deletes the record; the restore needs the rename
	// list and snapshot.
	txn := a.orch.Transaction(a.cfg.ProjectName, transactionID)
	if txn == nil {
		return nil, fmt.Errorf("%w: %s", orchestrator.ErrTransactionNotFound, transactionID)
	}

	restore, err := organizer.Restore(a.cfg.RootPath, txn)
	if err != nil {
		return nil, err
	}

	// A partially blocked restore keeps the record so the undo can be
	// retried once the blockers are cleared; Restore skips the entries
	// that already went back.
	if len(restore.Failed) > 0 {
		a.logger.Warn("undo incomplete, transaction record kept",
			"id", transactionID,
			"reversed", len(restore.Reversed),
			"failed", len(restore.Failed))
		summary := fmt.Sprintf("Reversed %d operations from transaction %s; %d failed, record kept for retry",
			len(restore.Reversed), txn.ID, len(restore.Failed))
		return &UndoOutcome{Summary: summary, Restore: restore}, nil
	}

	summary, err := a.orch.Undo(ctx, a.cfg.ProjectName, transactionID)
	if err != nil {
		return nil, err
	}

	return &UndoOutcome{Summary: summary, Restore: restore}, nil
}

// History returns the project's recorded transactions, most recent first.
func (a *App) History() []*txlog.Transaction {
	return a.orch.History(a.cfg.ProjectName)
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}
