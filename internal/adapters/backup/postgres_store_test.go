package backup

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

func TestPostgresStorePersist(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db, "obs_backup")
	records := []observation.Record{
		{Timestamp: 1, Sample: domain.NewNumeric(1, 42)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM obs_backup WHERE obs_path = $1")).
		WithArgs("/sensors/temp").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(
		"INSERT INTO obs_backup (obs_path, ts, data_type, bool_val, num_val, str_val) VALUES ($1,$2,$3,$4,$5,$6)")).
		ExpectExec().
		WithArgs("/sensors/temp", 1.0, int(domain.Numeric), false, 42.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.Persist("/sensors/temp", records); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreRestore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db, "obs_backup")
	rows := sqlmock.NewRows([]string{"ts", "data_type", "bool_val", "num_val", "str_val"}).
		AddRow(1.0, int(domain.Numeric), false, 42.0, "")

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT ts, data_type, bool_val, num_val, str_val FROM obs_backup WHERE obs_path = $1 ORDER BY ts ASC")).
		WithArgs("/sensors/temp").
		WillReturnRows(rows)

	got, err := store.Restore("/sensors/temp")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(got) != 1 || got[0].Sample.Numeric() != 42 {
		t.Fatalf("unexpected restored records: %+v", got)
	}
}
