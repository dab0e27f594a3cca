package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFailedOn = "UNIQUE constraint failed"
)

// IsUniqueViolation reports whether err was raised by a unique index on any of
// the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, sqliteUniqueFailedOn)
}

// UniqueViolationOn reports whether err is a unique violation raised by the
// index on table.column. Indexes are expected to be named <table>_<column>_key.
func UniqueViolationOn(err error, table, column string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	constraint := table + "_" + column + "_key"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == constraint
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strings.HasSuffix(strings.TrimSuffix(myErr.Message, "'"), constraint)
	}

	msg := err.Error()
	return strings.Contains(msg, constraint) || strings.Contains(msg, table+"."+column)
}
