// Package repository implements data access over database/sql.  This file
// defines sentinel errors reused across repositories so handlers can map
// failure scenarios to HTTP responses without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrUsernameExists is returned when an INSERT into users collides with
// the unique username constraint.  Handlers translate it to a duplicate
// resource response.
var ErrUsernameExists = errors.New("username already exists")

// ErrProfileExists is returned when a profile INSERT collides with the
// unique user_id constraint, i.e. the user already owns a profile of that
// kind.  The uniqueness check happens atomically in the INSERT itself, so
// there is no window between check and create.
var ErrProfileExists = errors.New("profile already exists")

// isDuplicateEntry reports whether err is a MySQL duplicate-key violation
// (error 1062).  Falls back to string matching for wrapped driver errors.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "1062")
}
