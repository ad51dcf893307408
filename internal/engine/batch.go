package engine

import (
	"context"
	"fmt"

	"github.com/bgwire/bgwire/internal/queue"
	"github.com/bgwire/bgwire/internal/transaction"
)

// Operation is one kind of transfer the engine can drive: it knows how to
// reach its form and how to push a single request through it. Implementations
// carry no state; the engine owns the session.
type Operation interface {
	// Name is the command key the operation's batches are queued under.
	Name() string
	// Currency is the currency requests of this operation are made in.
	Currency() string
	// Prepare navigates from the post-login landing page to the
	// operation's starting point. Called once per run.
	Prepare(ctx context.Context, e *Engine, class transaction.AccountClass) error
	// Execute drives one request through the remote form up to and
	// including the remote success signal.
	Execute(ctx context.Context, e *Engine, class transaction.AccountClass, account string, tx transaction.Request) error
}

// BatchRun describes one execution pass: which queue key, which source
// account, and the requests to push through.
type BatchRun struct {
	Key     queue.Key
	Account string
	Batch   []transaction.Request
}

// RunBatch drives every request of the batch through the remote UI in order.
//
// The batch is persisted before the first remote action so that an
// interruption at any point leaves the outstanding work on disk, and each
// request is removed from the store only once the remote system has signalled
// success for it. On the first failure the run stops: the failed request and
// everything after it stay queued for the next invocation.
func (e *Engine) RunBatch(ctx context.Context, op Operation, run BatchRun) error {
	if len(run.Batch) == 0 {
		e.printf("Nothing to transfer.")
		return nil
	}

	// Durability ahead of risk.
	if err := e.store.Save(run.Key, run.Batch); err != nil {
		return fmt.Errorf("persisting batch before execution: %w", err)
	}

	if err := e.Login(ctx); err != nil {
		return err
	}
	if err := e.SelectAccountClass(ctx, run.Key.AccountClass); err != nil {
		return err
	}
	if err := op.Prepare(ctx, e, run.Key.AccountClass); err != nil {
		return fmt.Errorf("preparing %s: %w", op.Name(), err)
	}

	for i, tx := range run.Batch {
		if err := op.Execute(ctx, e, run.Key.AccountClass, run.Account, tx); err != nil {
			return fmt.Errorf("%s: transaction %d of %d (to %s): %w",
				op.Name(), i+1, len(run.Batch), tx.Recipient.Name, err)
		}

		// Confirmed by the remote system; only now does it leave the
		// durable queue.
		if err := e.store.Remove(run.Key, tx); err != nil {
			return fmt.Errorf("%s: removing confirmed transaction from queue: %w", op.Name(), err)
		}
		e.printf("Registered transaction to %s for %s %s: %q",
			tx.Recipient.Name, tx.Amount, tx.Currency, tx.Description)
	}
	return nil
}
