package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPumpsCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pumps(reference, power_kw, status, commissioned_at) VALUES ($1,$2,$3,$4) RETURNING id`)).
		WithArgs("P1", 5.0, "ACTIVE", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	p := domain.Pump{Reference: "P1", PowerKW: 5, Status: domain.PumpActive, CommissionedAt: at}
	require.NoError(t, repo.Create(context.Background(), &p))
	assert.Equal(t, int64(11), p.ID)
}

func TestPumpsCreateDuplicateReference(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectQuery(`INSERT INTO pumps`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "pumps_reference_key"})

	p := domain.Pump{Reference: "P1", PowerKW: 5, Status: domain.PumpActive}
	err := repo.Create(context.Background(), &p)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPumpsGetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, reference, power_kw, status, commissioned_at FROM pumps WHERE id=$1`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPumpsGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM pumps WHERE id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "power_kw", "status", "commissioned_at"}).
			AddRow(1, "P1", 5.0, "INACTIVE", at))

	p, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Pump{ID: 1, Reference: "P1", PowerKW: 5, Status: domain.PumpInactive, CommissionedAt: at}, p)
}

func TestPumpsUpdateStatusMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE pumps SET status=$2 WHERE id=$1`)).
		WithArgs(int64(4), "ACTIVE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 4, domain.PumpActive)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPumpsDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pumps WHERE id=$1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 4))
}

func TestPumpsDeleteWithReadings(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pumps WHERE id=$1`)).
		WithArgs(int64(4)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(context.Background(), 4)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "consumption readings")
}

func TestPumpsDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Pumps

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM pumps WHERE id=$1`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), domain.ErrNotFound)
}

func TestConsumptionsInsertAndSum(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Consumptions
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO consumption_readings(pump_id, energy_used_kwh, duration_hours, measured_at) VALUES ($1,$2,$3,$4) RETURNING id`)).
		WithArgs(int64(1), 150.0, 2.0, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	c := domain.ConsumptionReading{PumpID: 1, EnergyUsedKWh: 150, DurationHours: 2, MeasuredAt: at}
	require.NoError(t, repo.Insert(context.Background(), &c))
	assert.Equal(t, int64(3), c.ID)

	from, to := at.Add(-time.Hour), at.Add(time.Hour)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(energy_used_kwh\), 0\) FROM consumption_readings\s+WHERE pump_id=\$1`).
		WithArgs(int64(1), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(150.0))

	total, err := repo.SumByPumpBetween(context.Background(), 1, from, to)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
}

func TestConsumptionsListAboveIsStrict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnergy(db).Consumptions

	mock.ExpectQuery(`WHERE energy_used_kwh > \$1`).
		WithArgs(100.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pump_id", "energy_used_kwh", "duration_hours", "measured_at"}))

	out, err := repo.ListAbove(context.Background(), 100)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
