package database

import (
	"strings"
	"testing"
)

// The hot statements are shared constants: the helpers must execute the
// exact text warmed at startup for gocql's prepared-statement cache to hit.
func TestHotStatementsLookUpByUniqueKey(t *testing.T) {
	cases := []struct {
		name  string
		stmt  string
		table string
	}{
		{"user id by username", StmtUserIDByUsername, "users_by_username"},
		{"user id by email", StmtUserIDByEmail, "users_by_email"},
		{"user by id", StmtUserByID, "FROM users "},
		{"product by id", StmtProductByID, "FROM products "},
	}

	for _, tc := range cases {
		if !strings.Contains(tc.stmt, tc.table) {
			t.Errorf("%s: statement does not target %q: %s", tc.name, tc.table, tc.stmt)
		}
		if got := strings.Count(tc.stmt, "?"); got != 1 {
			t.Errorf("%s: expected exactly one bind marker, got %d", tc.name, got)
		}
	}
}
