// Package checkpoint stores named rollback points for transfer transactions.
//
// A checkpoint is an opaque snapshot produced by the participants of a
// transaction (see transfer.Stateful). The store never interprets snapshots;
// it keys them by owner (the transaction identifier) and checkpoint ID so a
// transaction can roll back to any savepoint it recorded.
//
// Data flow:
//
//	transfer.Transaction.Savepoint -> Store.Save
//	transfer.Transaction.RollbackTo -> Store.Load -> Stateful.LoadState
//
// Store implementations are expected to be safe for concurrent use; MemoryStore
// is the default used when no store is configured.
package checkpoint
