package repository

import (
	"database/sql"
	"errors"
	"testing"
)

func roleRow(role string) roleLookup {
	return func() (string, error) { return role, nil }
}

func noRow() (string, error) { return "", sql.ErrNoRows }

func TestResolveRoleChainPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		current roleLookup
		legacy  roleLookup
		claim   string
		want    string
	}{
		{"current table wins", roleRow("superadmin"), roleRow("owner"), "user", "superadmin"},
		{"legacy table next", noRow, roleRow("owner"), "user", "owner"},
		{"claim when no rows", noRow, noRow, "owner", "owner"},
		{"default when nothing", noRow, noRow, "", "user"},
		{"unknown claim collapses", noRow, noRow, "root", "user"},
		{"unknown row falls through", roleRow("manager"), roleRow("owner"), "user", "owner"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveRoleChain(tc.claim, tc.current, tc.legacy)
			if got != tc.want {
				t.Fatalf("resolveRoleChain = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveRoleChainSkipsFailedLookups(t *testing.T) {
	broken := func() (string, error) { return "", errors.New("connection reset") }
	if got := resolveRoleChain("owner", broken, broken); got != "owner" {
		t.Fatalf("lookup errors should fall through to the claim, got %q", got)
	}
}
