// Package sqlitesink persists transfer activity in SQLite.
package sqlitesink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-transfer/pkg/activity"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS transfer_activity (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	verb TEXT NOT NULL,
	actor_id TEXT NOT NULL DEFAULT '',
	tenant_id TEXT NOT NULL DEFAULT '',
	object_type TEXT NOT NULL,
	object_id TEXT NOT NULL,
	channel TEXT NOT NULL DEFAULT '',
	amount INTEGER NOT NULL,
	resource TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	occurred_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS transfer_activity_object ON transfer_activity (object_id, occurred_at);`

// Store is an activity.ActivityHook appending events to a SQLite table.
type Store struct {
	sqlDB *sql.DB
}

var _ activity.ActivityHook = (*Store)(nil)

// Open opens the database at path and creates the activity table. Use
// ":memory:" for an ephemeral ledger.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlitesink: storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitesink: open sqlite db: %w", err)
	}
	// An in-memory database lives per connection.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitesink: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitesink: create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Notify appends event. Incomplete events are dropped.
func (s *Store) Notify(ctx context.Context, event activity.Event) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlitesink: storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	normalized := activity.NormalizeEvent(event)
	if !activity.Valid(normalized) {
		return nil
	}
	metadata, err := json.Marshal(normalized.Metadata)
	if err != nil {
		return fmt.Errorf("sqlitesink: encode metadata: %w", err)
	}
	if normalized.Metadata == nil {
		metadata = []byte("{}")
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO transfer_activity (
		   verb, actor_id, tenant_id, object_type, object_id, channel,
		   amount, resource, metadata, occurred_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		normalized.Verb,
		normalized.ActorID,
		normalized.TenantID,
		normalized.ObjectType,
		normalized.ObjectID,
		normalized.Channel,
		normalized.Amount,
		normalized.Resource,
		string(metadata),
		normalized.OccurredAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlitesink: insert activity: %w", err)
	}
	return nil
}

// List returns the events recorded for objectID, oldest first.
func (s *Store) List(ctx context.Context, objectID string) ([]activity.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT verb, actor_id, tenant_id, object_type, object_id, channel,
		        amount, resource, metadata, occurred_at
		   FROM transfer_activity
		  WHERE object_id = ?
		  ORDER BY occurred_at, id`,
		objectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitesink: query activity: %w", err)
	}
	defer rows.Close()

	var events []activity.Event
	for rows.Next() {
		var (
			event      activity.Event
			metadata   string
			occurredAt int64
		)
		if err := rows.Scan(
			&event.Verb,
			&event.ActorID,
			&event.TenantID,
			&event.ObjectType,
			&event.ObjectID,
			&event.Channel,
			&event.Amount,
			&event.Resource,
			&metadata,
			&occurredAt,
		); err != nil {
			return nil, fmt.Errorf("sqlitesink: scan activity: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &event.Metadata); err != nil {
				return nil, fmt.Errorf("sqlitesink: decode metadata: %w", err)
			}
		}
		event.OccurredAt = time.UnixMilli(occurredAt).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}

// Totals sums the recorded amount per verb for objectID.
func (s *Store) Totals(ctx context.Context, objectID string) (map[string]int64, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT verb, SUM(amount) FROM transfer_activity WHERE object_id = ? GROUP BY verb`,
		objectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitesink: query totals: %w", err)
	}
	defer rows.Close()
	totals := map[string]int64{}
	for rows.Next() {
		var (
			verb  string
			total int64
		)
		if err := rows.Scan(&verb, &total); err != nil {
			return nil, fmt.Errorf("sqlitesink: scan totals: %w", err)
		}
		totals[verb] = total
	}
	return totals, rows.Err()
}
