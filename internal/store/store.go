// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/mathsprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for wallet, inventory, high scores,
// achievements, and play history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plays (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			problems INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			sparks INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS high_scores (
			mode TEXT PRIMARY KEY,
			score INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS wallet (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			sparks INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			item_id TEXT PRIMARY KEY,
			quantity INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			unlocked_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS daily_bests (
			day TEXT PRIMARY KEY,
			score INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plays_ended_at ON plays(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertPlay stores a completed play-through.
func (s *Store) InsertPlay(ctx context.Context, rec model.PlayRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plays (id, mode, started_at, ended_at, score, problems, correct, best_streak, sparks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Mode),
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Score,
		rec.Problems,
		rec.Correct,
		rec.BestStreak,
		rec.Sparks,
	)
	return err
}

// ListPlays returns stored plays in chronological order, optionally
// filtered by mode and limited to the most recent N.
func (s *Store) ListPlays(ctx context.Context, mode model.Mode, last int) ([]model.PlayRecord, error) {
	query := `SELECT id, mode, started_at, ended_at, score, problems, correct, best_streak, sparks
		FROM plays
		WHERE (? = '' OR mode = ?)
		ORDER BY ended_at ASC`
	rows, err := s.db.QueryContext(ctx, query, string(mode), string(mode))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var plays []model.PlayRecord
	for rows.Next() {
		var rec model.PlayRecord
		var m, started, ended string
		if err := rows.Scan(&rec.ID, &m, &started, &ended, &rec.Score, &rec.Problems, &rec.Correct, &rec.BestStreak, &rec.Sparks); err != nil {
			return nil, err
		}
		rec.Mode = model.Mode(m)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, err
		}
		plays = append(plays, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if last > 0 && len(plays) > last {
		plays = plays[len(plays)-last:]
	}
	return plays, nil
}

// HighScore returns the stored high score for a mode, zero when unset.
func (s *Store) HighScore(ctx context.Context, mode model.Mode) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM high_scores WHERE mode = ?`, string(mode)).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return score, err
}

// SetHighScore writes the high score for a mode.
func (s *Store) SetHighScore(ctx context.Context, mode model.Mode, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO high_scores (mode, score) VALUES (?, ?)
		 ON CONFLICT(mode) DO UPDATE SET score = excluded.score`,
		string(mode), score)
	return err
}

// Sparks returns the wallet balance.
func (s *Store) Sparks(ctx context.Context) (int, error) {
	var sparks int
	err := s.db.QueryRowContext(ctx, `SELECT sparks FROM wallet WHERE id = 1`).Scan(&sparks)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return sparks, err
}

// AddSparks credits the wallet and returns the new balance.
func (s *Store) AddSparks(ctx context.Context, delta int) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallet (id, sparks) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET sparks = sparks + excluded.sparks`,
		delta)
	if err != nil {
		return 0, err
	}
	return s.Sparks(ctx)
}

// SpendSparks debits the wallet if the balance covers the amount.
func (s *Store) SpendSparks(ctx context.Context, amount int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE wallet SET sparks = sparks - ? WHERE id = 1 AND sparks >= ?`,
		amount, amount)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ItemCount returns the owned quantity of an item.
func (s *Store) ItemCount(ctx context.Context, itemID string) (int, error) {
	var qty int
	err := s.db.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE item_id = ?`, itemID).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return qty, err
}

// AddItem adds quantity to the inventory.
func (s *Store) AddItem(ctx context.Context, itemID string, qty int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory (item_id, quantity) VALUES (?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
		itemID, qty)
	return err
}

// ConsumeItem decrements an owned item by one, reporting whether any
// was owned.
func (s *Store) ConsumeItem(ctx context.Context, itemID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - 1 WHERE item_id = ? AND quantity > 0`,
		itemID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Inventory returns every owned item with a positive quantity.
func (s *Store) Inventory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, quantity FROM inventory WHERE quantity > 0`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := map[string]int{}
	for rows.Next() {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// UnlockAchievement records an unlock, reporting whether it was new.
func (s *Store) UnlockAchievement(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		id, at.Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Achievements returns unlock timestamps keyed by achievement id.
func (s *Store) Achievements(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, unlocked_at FROM achievements`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := map[string]time.Time{}
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		out[id] = parsed
	}
	return out, rows.Err()
}

// DailyBest returns the stored best score for a day key, zero when unset.
func (s *Store) DailyBest(ctx context.Context, day string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM daily_bests WHERE day = ?`, day).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return score, err
}

// SetDailyBest stores the score when it beats the day's previous best,
// reporting whether it did.
func (s *Store) SetDailyBest(ctx context.Context, day string, score int) (bool, error) {
	prev, err := s.DailyBest(ctx, day)
	if err != nil {
		return false, err
	}
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_bests WHERE day = ?`, day).Scan(&exists); err != nil {
		return false, err
	}
	if exists > 0 && score <= prev {
		return false, nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO daily_bests (day, score) VALUES (?, ?)
		 ON CONFLICT(day) DO UPDATE SET score = excluded.score`,
		day, score)
	return err == nil, err
}

// DeleteDailyBestsBefore removes daily bests older than the given day key.
func (s *Store) DeleteDailyBestsBefore(ctx context.Context, day string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM daily_bests WHERE day < ?`, day)
	return err
}

// GetMeta returns a metadata value, empty when unset.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMeta writes a metadata value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}
