package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// ErrNotUpdated is returned by guarded updates whose WHERE clause matched no row.
var ErrNotUpdated = errors.New("no row matched the update guard")

// Transactor runs fn inside one database transaction. The tx handed to fn is
// what repository methods taking a tx expect.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}
