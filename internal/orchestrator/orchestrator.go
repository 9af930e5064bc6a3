// Package orchestrator ties detection output, plan generation, and the
// transaction log together into the public apply/undo entry points.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"tripsort/internal/mapping"
	"tripsort/internal/txlog"
)

// ErrTransactionNotFound is returned by Undo when no record exists for the
// given id: it was never saved (dry run), already undone, or lost to a
// best-effort save failure.
var ErrTransactionNotFound = errors.New("transaction not found")

// ApplyResult is what an apply call hands back to the caller: the plan and
// the id under which it was (or, for a dry run, would have been) recorded.
type ApplyResult struct {
	TransactionID string
	Summary       string
	Changes       mapping.Changeset
}

// Orchestrator coordinates one mapping session. It computes plans and keeps
// the transaction bookkeeping; actual filesystem work belongs to the
// organizer, invoked separately by the caller with the same mapping list.
type Orchestrator struct {
	log    *txlog.Log
	logger txlog.Logger
}

// New creates an Orchestrator over the given transaction log. A nil logger
// defaults to NopLogger.
func New(log *txlog.Log, logger txlog.Logger) *Orchestrator {
	if logger == nil {
		logger = txlog.NewNopLogger()
	}
	return &Orchestrator{
		log:    log,
		logger: logger,
	}
}

// Apply builds the dry-run summary and the transaction for a reviewed
// mapping list (conventionally already filtered through mapping.Active).
// When dryRun is false the transaction is persisted so the operation can be
// undone later; a dry run produces the same result without touching the
// store. Mapping iteration order is preserved end to end.
func (o *Orchestrator) Apply(ctx context.Context, projectName, rootPath string, mappings []mapping.FolderMapping, snapshot *txlog.Snapshot, dryRun bool) (*ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := mapping.Summarize(mappings)
	txn := o.log.NewTransaction(projectName, rootPath, mappings, snapshot)

	if dryRun {
		o.logger.Debug("dry run, transaction not persisted", "id", txn.ID)
	} else {
		o.log.Save(txn)
		o.logger.Info("recorded folder mapping transaction",
			"id", txn.ID,
			"project", projectName,
			"created", len(txn.Changes.Created),
			"renamed", len(txn.Changes.Renamed),
			"skipped", len(txn.Changes.Skipped))
	}

	return &ApplyResult{
		TransactionID: txn.ID,
		Summary:       summary,
		Changes:       txn.Changes,
	}, nil
}

// Undo reverses the bookkeeping of a recorded apply: it loads the
// transaction, reports how many operations a restore must reverse, and
// deletes the record so a second undo of the same id fails with
// ErrTransactionNotFound. Restoring actual folder state from the snapshot is
// the organizer's job.
func (o *Orchestrator) Undo(ctx context.Context, projectName, transactionID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	txn := o.log.Get(projectName, transactionID)
	if txn == nil {
		return "", fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionID)
	}

	reversed := len(txn.Changes.Renamed) + len(txn.Changes.Moved)
	summary := fmt.Sprintf("Reversed %d operations from transaction %s", reversed, txn.ID)

	o.log.Delete(projectName, transactionID)
	o.logger.Info("undid folder mapping transaction", "id", transactionID, "reversed", reversed)

	return summary, nil
}

// History returns the recorded transactions for a project, most recent
// first.
func (o *Orchestrator) History(projectName string) []*txlog.Transaction {
	return o.log.List(projectName)
}

// Transaction returns one recorded transaction, or nil when absent. The CLI
// uses it to fetch the snapshot and rename list before a filesystem restore.
func (o *Orchestrator) Transaction(projectName, transactionID string) *txlog.Transaction {
	return o.log.Get(projectName, transactionID)
}
