package archive

import (
	"database/sql"
	"fmt"
	"net/netip"
	"time"

	"log-sentinel/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps a history of emitted alerts in SQLite. It is an output
// destination only: detector state is never written or restored.
type Store struct {
	db   *sql.DB
	stmt *sql.Stmt
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// Create table if not exists
	query := `
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		rule_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		ts DATETIME NOT NULL,
		ip TEXT,
		username TEXT,
		message TEXT,
		raw TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts);
	CREATE INDEX IF NOT EXISTS idx_alerts_ip ON alerts(ip);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO alerts (id, rule_id, severity, ts, ip, username, message, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare archive insert: %w", err)
	}

	return &Store{db: db, stmt: stmt}, nil
}

// Emit stores one alert.
func (s *Store) Emit(a *types.Alert) error {
	var ip, user sql.NullString
	if a.HasIP() {
		ip = sql.NullString{String: a.IP.String(), Valid: true}
	}
	if a.User != "" {
		user = sql.NullString{String: a.User, Valid: true}
	}

	_, err := s.stmt.Exec(a.ID, a.RuleID, a.Severity.String(), a.Timestamp.UTC(), ip, user, a.Message, a.Raw)
	if err != nil {
		return fmt.Errorf("failed to archive alert %s: %w", a.ID, err)
	}
	return nil
}

// Recent returns up to limit alerts, newest first.
func (s *Store) Recent(limit int) ([]*types.Alert, error) {
	rows, err := s.db.Query(`
		SELECT id, rule_id, severity, ts, ip, username, message, raw
		FROM alerts
		ORDER BY ts DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var alerts []*types.Alert
	for rows.Next() {
		var (
			a        types.Alert
			severity string
			ts       time.Time
			ip, user sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.RuleID, &severity, &ts, &ip, &user, &a.Message, &a.Raw); err != nil {
			return nil, fmt.Errorf("failed to scan archived alert: %w", err)
		}
		if err := a.Severity.UnmarshalText([]byte(severity)); err != nil {
			return nil, fmt.Errorf("archived alert %s: %w", a.ID, err)
		}
		a.Timestamp = ts
		if ip.Valid {
			if addr, err := netip.ParseAddr(ip.String); err == nil {
				a.IP = addr
			}
		}
		a.User = user.String
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

// CountByRule returns the number of archived alerts per rule.
func (s *Store) CountByRule() (map[string]int, error) {
	rows, err := s.db.Query("SELECT rule_id, COUNT(*) FROM alerts GROUP BY rule_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var rule string
		var n int
		if err := rows.Scan(&rule, &n); err != nil {
			return nil, err
		}
		counts[rule] = n
	}
	return counts, rows.Err()
}

func (s *Store) Close() error {
	s.stmt.Close()
	return s.db.Close()
}
