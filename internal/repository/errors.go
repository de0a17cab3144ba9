// Package repository contains the MySQL data access layer. Repositories
// hold a *sql.DB, expose *Tx method variants where callers need to scope
// several statements into one transaction, and translate driver errors
// into the domain sentinels defined by the booking, rating and model
// packages so that no SQL detail leaks past this layer.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). The driver does not expose a typed error for it.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
