package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

// EnergyRepos are the record stores owned by the energy service.
type EnergyRepos struct {
	Pumps        *Pumps
	Consumptions *Consumptions
}

func NewEnergy(db *sqlx.DB) *EnergyRepos {
	return &EnergyRepos{Pumps: &Pumps{db: db}, Consumptions: &Consumptions{db: db}}
}

// WaterRepos are the record stores owned by the water service.
type WaterRepos struct {
	Flows      *Flows
	Reservoirs *Reservoirs
}

func NewWater(db *sqlx.DB) *WaterRepos {
	return &WaterRepos{Flows: &Flows{db: db}, Reservoirs: &Reservoirs{db: db}}
}

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
)

// translate maps driver errors onto the domain taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s already exists", domain.ErrValidation, what)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s violates %s", domain.ErrValidation, what, pgErr.ConstraintName)
		case pgFKViolation:
			return fmt.Errorf("%w: %s references a missing record", domain.ErrNotFound, what)
		}
	}
	return err
}

func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return nil
}
