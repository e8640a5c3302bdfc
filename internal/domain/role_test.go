package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		"Admin":   RoleAdmin,
		" ADMIN ": RoleAdmin,
		"user":    RoleUser,
		"User":    RoleUser,
		"seller":  RoleUnknown,
		"":        RoleUnknown,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasRole(t *testing.T) {
	if HasRole(nil, RoleAdmin) {
		t.Fatal("nil profile must not pass")
	}
	if !HasRole(&Profile{Role: "Admin"}, RoleAdmin) {
		t.Error("Admin should match admin")
	}
	if HasRole(&Profile{Role: "user"}, RoleAdmin) {
		t.Error("user must not match admin")
	}
	if !HasRole(&Profile{Role: "user"}, RoleAdmin, RoleUser) {
		t.Error("user should match allow-list containing user")
	}
	if HasRole(&Profile{Role: ""}, RoleUnknown) {
		t.Error("unknown role must never match")
	}
}

func TestProfileMerge(t *testing.T) {
	p := Profile{ID: 1, Email: "a@b.com", FullName: "A", Role: "admin"}
	got := p.Merge(Profile{FullName: "Alice"})
	if got.FullName != "Alice" || got.Email != "a@b.com" || got.Role != "admin" || got.ID != 1 {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}
