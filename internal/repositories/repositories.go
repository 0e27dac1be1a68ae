package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/watchlist"
)

var _ watchlist.Backend = (*SlotRepository)(nil)

// SlotWrite is one row of the slot write history.
type SlotWrite struct {
	ID        int64
	Name      string
	Size      int
	WrittenAt time.Time
}

// SlotRepository implements [watchlist.Backend] on the SQLite slots table.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository creates a new [SlotRepository] with the given database connection
func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// GetText returns the value stored under name. ok is false when the slot has never been written.
func (r *SlotRepository) GetText(name string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query slot: %w", err)
	}
	return value, true, nil
}

// SetText upserts the slot and records the write in slot_history within one transaction.
func (r *SlotRepository) SetText(name, text string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	query := `
		INSERT INTO slots (name, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, name, text, now, now); err != nil {
		return fmt.Errorf("failed to upsert slot: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO slot_history (name, size, written_at) VALUES (?, ?, ?)`, name, len(text), now); err != nil {
		return fmt.Errorf("failed to record slot write: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit slot write: %w", err)
	}
	return nil
}

// UpdatedAt returns when the slot was last written.
func (r *SlotRepository) UpdatedAt(name string) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(`SELECT updated_at FROM slots WHERE name = ?`, name).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("%w: slot %s", shared.ErrNotFound, name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query slot: %w", err)
	}
	return updatedAt, nil
}

// History lists the most recent writes to name, newest first. A limit of zero or less returns every write.
func (r *SlotRepository) History(name string, limit int) ([]SlotWrite, error) {
	query := `
		SELECT id, name, size, written_at
		FROM slot_history
		WHERE name = ?
		ORDER BY id DESC
	`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot history: %w", err)
	}
	defer rows.Close()

	var writes []SlotWrite
	for rows.Next() {
		var w SlotWrite
		if err := rows.Scan(&w.ID, &w.Name, &w.Size, &w.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot write: %w", err)
		}
		writes = append(writes, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return writes, nil
}
