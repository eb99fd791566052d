package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// UsageStats aggregates the commands run within one category.
type UsageStats struct {
	Count    int
	Commands map[string]int
}

// TimeSeriesPoint is the number of commands in the bucket starting at Timestamp.
type TimeSeriesPoint struct {
	Timestamp int64
	Count     int
}

type Store struct{ db DB }

// EnsureParentDir creates the directory holding the database file at path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func OpenSQLite(dsn string) (DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	return db, nil
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS usage_events(
		chat_id INTEGER, user_id INTEGER, command TEXT, category TEXT, ts INTEGER
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS usage_events_ts ON usage_events(ts)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

func (s *Store) SaveUsage(chatID, userID int64, command, category string, ts int64) error {
	_, err := s.db.Exec(`INSERT INTO usage_events(chat_id,user_id,command,category,ts) VALUES(?,?,?,?,?)`,
		chatID, userID, command, category, ts)
	return err
}

// UsageByCategory counts commands per category since the given unix time.
func (s *Store) UsageByCategory(since int64) (map[string]*UsageStats, error) {
	rows, err := s.db.Query(`SELECT category, command, COUNT(*) FROM usage_events
		WHERE ts>=? GROUP BY category, command`, since)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()
	out := map[string]*UsageStats{}
	for rows.Next() {
		var category, command string
		var n int
		if err := rows.Scan(&category, &command, &n); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		st, ok := out[category]
		if !ok {
			st = &UsageStats{Commands: map[string]int{}}
			out[category] = st
		}
		st.Count += n
		st.Commands[command] += n
	}
	return out, rows.Err()
}

// UsageTimeSeries buckets commands per category into bucket-second slots
// since the given unix time.
func (s *Store) UsageTimeSeries(since, bucket int64) (map[string][]TimeSeriesPoint, error) {
	if bucket <= 0 {
		return nil, fmt.Errorf("bucket must be positive, got %d", bucket)
	}
	rows, err := s.db.Query(`SELECT category, (ts/?)*? AS slot, COUNT(*) FROM usage_events
		WHERE ts>=? GROUP BY category, slot ORDER BY slot ASC`, bucket, bucket, since)
	if err != nil {
		return nil, fmt.Errorf("query usage series: %w", err)
	}
	defer rows.Close()
	out := map[string][]TimeSeriesPoint{}
	for rows.Next() {
		var category string
		var p TimeSeriesPoint
		if err := rows.Scan(&category, &p.Timestamp, &p.Count); err != nil {
			return nil, fmt.Errorf("scan usage series: %w", err)
		}
		out[category] = append(out[category], p)
	}
	return out, rows.Err()
}
