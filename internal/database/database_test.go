package database

import (
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestMigrateAppliesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS pumps`).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := Migrate(sqlx.NewDb(db, "sqlmock"), EnergySchema); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrateWrapsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS flow_readings`).WillReturnError(boom)
	err = Migrate(sqlx.NewDb(db, "sqlmock"), WaterSchema)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestEnergySchemaKeepsReadingsOnPumpDelete(t *testing.T) {
	if strings.Contains(strings.ToUpper(EnergySchema), "ON DELETE CASCADE") {
		t.Fatal("deleting a pump must not remove its consumption readings")
	}
	if !strings.Contains(EnergySchema, "REFERENCES pumps(id)") {
		t.Fatal("consumption readings must reference pumps")
	}
}
