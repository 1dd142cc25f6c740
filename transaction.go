package transfer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-transfer/pkg/checkpoint"
	"github.com/google/uuid"
)

// Transaction groups speculative mutations over a set of participants. Begin
// captures every participant's state; Rollback restores it and Commit keeps
// whatever the participants hold now. A Transaction is not safe for concurrent
// use and assumes a single mutator context.
//
//	tx := transfer.Begin(source, target)
//	defer tx.Close()
//	... mutate with transfer.Act ...
//	return tx.Commit()
type Transaction struct {
	id           string
	parent       *Transaction
	children     []*Transaction
	participants []Stateful
	base         []State
	store        checkpoint.Store[[]State]
	savepoints   []string
	done         bool
	committed    bool
	simulate     bool
}

// Enlister is implemented by participants that hold side effects back until
// the transactions covering them finish. Enlist is called when a transaction
// over the participant opens, Delist once it has committed or rolled back.
type Enlister interface {
	Enlist(tx *Transaction)
	Delist(tx *Transaction)
}

func enlist(participant any, tx *Transaction) {
	if e, ok := participant.(Enlister); ok {
		e.Enlist(tx)
	}
}

func delist(participant any, tx *Transaction) {
	if e, ok := participant.(Enlister); ok {
		e.Delist(tx)
	}
}

// Begin opens a transaction over participants using an in-memory checkpoint
// store.
func Begin(participants ...Stateful) *Transaction {
	return BeginWith(nil, participants...)
}

// BeginWith opens a transaction recording savepoints in store.
func BeginWith(store checkpoint.Store[[]State], participants ...Stateful) *Transaction {
	if store == nil {
		store = checkpoint.NewMemoryStore[[]State]()
	}
	tx := &Transaction{
		id:           uuid.NewString(),
		participants: append([]Stateful(nil), participants...),
		store:        store,
	}
	tx.base = tx.capture()
	tx.enlistAll()
	return tx
}

// ID returns the transaction identifier.
func (tx *Transaction) ID() string { return tx.id }

// Parent returns the enclosing transaction, nil for the outermost one.
func (tx *Transaction) Parent() *Transaction { return tx.parent }

// Done reports whether the transaction was committed or rolled back.
func (tx *Transaction) Done() bool { return tx.done }

// Committed reports whether the transaction was committed.
func (tx *Transaction) Committed() bool { return tx.committed }

// Simulated reports whether the transaction, or one enclosing it, was opened
// by Atomically with Simulate and will therefore be rolled back.
func (tx *Transaction) Simulated() bool {
	for t := tx; t != nil; t = t.parent {
		if t.simulate {
			return true
		}
	}
	return false
}

// Nested opens a child transaction over the same participants. Committing the
// child keeps its mutations subject to the parent's outcome; rolling it back
// restores the state captured when the child opened.
func (tx *Transaction) Nested() (*Transaction, error) {
	if tx.done {
		return nil, ErrTransactionClosed
	}
	child := &Transaction{
		id:           uuid.NewString(),
		parent:       tx,
		participants: tx.participants,
		store:        tx.store,
	}
	child.base = child.capture()
	child.enlistAll()
	tx.children = append(tx.children, child)
	return child, nil
}

// Savepoint records the current state and returns its identifier.
func (tx *Transaction) Savepoint(label string) (string, error) {
	if tx.done {
		return "", ErrTransactionClosed
	}
	id := uuid.NewString()
	meta := checkpoint.Meta{Label: label, Sequence: len(tx.savepoints) + 1}
	if _, err := tx.store.Save(context.Background(), tx.ref(id), tx.capture(), meta); err != nil {
		return "", fmt.Errorf("transfer: savepoint %q: %w", label, err)
	}
	tx.savepoints = append(tx.savepoints, id)
	return id, nil
}

// RollbackTo restores the state recorded by Savepoint. The transaction stays
// open.
func (tx *Transaction) RollbackTo(id string) error {
	if tx.done {
		return ErrTransactionClosed
	}
	states, _, ok, err := tx.store.Load(context.Background(), tx.ref(id))
	if err != nil {
		return fmt.Errorf("transfer: load savepoint %q: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSavepoint, id)
	}
	tx.restore(states)
	return nil
}

// Commit ends the transaction keeping current state. Open nested transactions
// are rolled back first.
func (tx *Transaction) Commit() error {
	if tx.done {
		return ErrTransactionClosed
	}
	tx.abortChildren()
	tx.finish(true)
	return nil
}

// Rollback ends the transaction restoring the state captured at Begin.
func (tx *Transaction) Rollback() error {
	if tx.done {
		return ErrTransactionClosed
	}
	tx.abortChildren()
	tx.restore(tx.base)
	tx.finish(false)
	return nil
}

// Close rolls back unless the transaction already finished. It is meant for
// defer.
func (tx *Transaction) Close() error {
	if tx.done {
		return nil
	}
	return tx.Rollback()
}

func (tx *Transaction) abortChildren() {
	for _, child := range tx.children {
		if !child.done {
			_ = child.Rollback()
		}
	}
	tx.children = nil
}

func (tx *Transaction) finish(committed bool) {
	ctx := context.Background()
	for _, id := range tx.savepoints {
		_ = tx.store.Delete(ctx, tx.ref(id))
	}
	tx.savepoints = nil
	tx.done = true
	tx.committed = committed
	for _, p := range tx.participants {
		delist(p, tx)
	}
}

func (tx *Transaction) enlistAll() {
	for _, p := range tx.participants {
		enlist(p, tx)
	}
}

func (tx *Transaction) capture() []State {
	states := make([]State, len(tx.participants))
	for i, p := range tx.participants {
		states[i] = p.SaveState()
	}
	return states
}

func (tx *Transaction) restore(states []State) {
	for i, p := range tx.participants {
		if i < len(states) {
			p.LoadState(states[i])
		}
	}
}

func (tx *Transaction) ref(id string) checkpoint.Ref {
	return checkpoint.Ref{Owner: tx.id, ID: id}
}

// Atomically runs fn inside a transaction over participants. fn always
// mutates with Act; the transaction commits only when action is Act and fn
// succeeds, so a composite operation simulated this way leaves no trace.
// With Simulate the transaction reports Simulated from the start.
func Atomically(action Action, fn func(tx *Transaction) error, participants ...Stateful) error {
	tx := Begin(participants...)
	tx.simulate = action != Act
	defer tx.Close()
	if err := fn(tx); err != nil {
		return err
	}
	if action == Act {
		return tx.Commit()
	}
	return tx.Rollback()
}
