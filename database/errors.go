package database

import (
	"strings"
)

var connectionErrors = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"driver: bad connection",
	"database is locked",
	"database table is locked",
}

// IsConnectionError reports whether err looks transient: a dropped
// connection or a locked SQLite database.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range connectionErrors {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
