// Package backup implements observation.BackupStore adapters: a SQLite
// file-per-observation primary store, and an optional Postgres store for
// deployments that centralize backups in a shared database.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

// SQLiteStore persists each observation's buffer to its own SQLite file
// under dir, named after the observation's resource path.
type SQLiteStore struct {
	dir string
}

// NewSQLiteStore creates a store rooted at dir, creating the directory
// if it does not already exist.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create dir: %w", err)
	}
	return &SQLiteStore{dir: dir}, nil
}

func (s *SQLiteStore) filePath(obsPath string) string {
	name := strings.ReplaceAll(strings.Trim(obsPath, "/"), "/", "__")
	if name == "" {
		name = "root"
	}
	return filepath.Join(s.dir, name+".db")
}

func (s *SQLiteStore) open(obsPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.filePath(obsPath))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		ts REAL NOT NULL,
		data_type INTEGER NOT NULL,
		bool_val INTEGER NOT NULL,
		num_val REAL NOT NULL,
		str_val TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Persist replaces the stored records for obsPath with records.
func (s *SQLiteStore) Persist(obsPath string, records []observation.Record) error {
	db, err := s.open(obsPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO records (ts, data_type, bool_val, num_val, str_val) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, rec := range records {
		sm := rec.Sample
		if _, err := stmt.Exec(sm.Timestamp(), int(sm.Type()), boolToInt(sm.Bool()), sm.Numeric(), sampleStrVal(sm)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Restore loads back the records previously persisted for obsPath. It
// returns (nil, nil) if no backup file exists yet.
func (s *SQLiteStore) Restore(obsPath string) ([]observation.Record, error) {
	if _, err := os.Stat(s.filePath(obsPath)); os.IsNotExist(err) {
		return nil, nil
	}
	db, err := s.open(obsPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT ts, data_type, bool_val, num_val, str_val FROM records ORDER BY ts ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []observation.Record
	for rows.Next() {
		var ts, numVal float64
		var dt, boolInt int
		var strVal string
		if err := rows.Scan(&ts, &dt, &boolInt, &numVal, &strVal); err != nil {
			return nil, err
		}
		sm := domain.FromParts(ts, domain.DataType(dt), boolInt != 0, numVal, strVal)
		out = append(out, observation.Record{Timestamp: ts, Sample: sm})
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sampleStrVal returns a sample's string-typed payload (shared by String
// and JSON variants), empty for the other variants.
func sampleStrVal(s *domain.Sample) string {
	switch s.Type() {
	case domain.String:
		return s.String()
	case domain.JSON:
		return s.RawJSON()
	default:
		return ""
	}
}

var _ observation.BackupStore = (*SQLiteStore)(nil)
