// Package repository contains data access logic separated from HTTP
// handlers. Shared sentinel values live here so handlers can distinguish
// failure scenarios without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// target's current state, such as capturing payment on a reservation that
// is not pending. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is the server error code for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL unique-constraint
// violation. The typed check matters on the ensure-price path, where a
// duplicate key is the expected concurrent-creation branch and must never
// be confused with any other failure.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
