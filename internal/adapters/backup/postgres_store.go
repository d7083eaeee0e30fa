package backup

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

// PostgresStore is an optional secondary BackupStore for deployments
// that centralize observation backups in a shared Postgres database
// instead of per-observation SQLite files.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore wraps an already-open *sql.DB. table must already
// exist with columns (obs_path text, ts double precision, data_type
// integer, bool_val boolean, num_val double precision, str_val text).
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

func (p *PostgresStore) Persist(obsPath string, records []observation.Record) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE obs_path = $1", p.table), obsPath); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (obs_path, ts, data_type, bool_val, num_val, str_val) VALUES ($1,$2,$3,$4,$5,$6)", p.table))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, rec := range records {
		sm := rec.Sample
		if _, err := stmt.Exec(obsPath, sm.Timestamp(), int(sm.Type()), sm.Bool(), sm.Numeric(), sampleStrVal(sm)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) Restore(obsPath string) ([]observation.Record, error) {
	rows, err := p.db.Query(fmt.Sprintf(
		"SELECT ts, data_type, bool_val, num_val, str_val FROM %s WHERE obs_path = $1 ORDER BY ts ASC", p.table), obsPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []observation.Record
	for rows.Next() {
		var ts, numVal float64
		var dt int
		var boolVal bool
		var strVal string
		if err := rows.Scan(&ts, &dt, &boolVal, &numVal, &strVal); err != nil {
			return nil, err
		}
		sm := domain.FromParts(ts, domain.DataType(dt), boolVal, numVal, strVal)
		out = append(out, observation.Record{Timestamp: ts, Sample: sm})
	}
	return out, rows.Err()
}

var _ observation.BackupStore = (*PostgresStore)(nil)
