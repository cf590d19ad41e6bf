package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// sqlite
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
