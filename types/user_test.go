package types

import "testing"

func TestIsActive(t *testing.T) {
	if !(Account{Status: StatusActive}).IsActive() {
		t.Fatal("ACTIVE account should be active")
	}
	if (Account{Status: StatusPending}).IsActive() {
		t.Fatal("PENDING account should not be active")
	}
	if (Account{Status: StatusDeactivate}).IsActive() {
		t.Fatal("DEACTIVATE account should not be active")
	}
}

func TestIsAdmin(t *testing.T) {
	admin := Account{Roles: []Role{{Name: RoleUser}, {Name: RoleAdmin}}}
	if !admin.IsAdmin() {
		t.Fatal("account holding ADMIN should be admin")
	}

	user := Account{Roles: []Role{{Name: RoleUser}}}
	if user.IsAdmin() {
		t.Fatal("account without ADMIN should not be admin")
	}

	if (Account{}).IsAdmin() {
		t.Fatal("account with no roles should not be admin")
	}
}

func TestParseRoleName(t *testing.T) {
	for input, want := range map[string]RoleName{
		"ADMIN": RoleAdmin,
		"admin": RoleAdmin,
		" user": RoleUser,
		"USER":  RoleUser,
	} {
		got, err := ParseRoleName(input)
		if err != nil {
			t.Fatalf("ParseRoleName(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseRoleName(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseRoleName("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseUserStatus(t *testing.T) {
	for input, want := range map[string]UserStatus{
		"active":     StatusActive,
		"PENDING":    StatusPending,
		"deactivate": StatusDeactivate,
	} {
		got, err := ParseUserStatus(input)
		if err != nil {
			t.Fatalf("ParseUserStatus(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseUserStatus(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseUserStatus("disabled"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
