package store

import (
	"errors"
	"testing"
)

func TestUserCreate(t *testing.T) {
	ts := newTestStores(t)

	u, err := ts.users.Create("eduardo", "Eduardo", "Coronado", "eduardo@example.com", "ilikethehabs", "(514)911-1234", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Username != "eduardo" {
		t.Errorf("username = %q", u.Username)
	}
	if u.IsAdmin {
		t.Error("expected non-admin user")
	}

	// The stored credential is a hash, never the raw password.
	var hash string
	ts.db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, u.ID).Scan(&hash)
	if hash == "ilikethehabs" || hash == "" {
		t.Errorf("password stored in the clear or missing")
	}
}

func TestUserCreateBlankFirstName(t *testing.T) {
	ts := newTestStores(t)

	for _, name := range []string{"", "   "} {
		_, err := ts.users.Create("u", name, "Last", "blank@example.com", "pw", "", false)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("first name %q: expected ErrValidation, got %v", name, err)
		}
	}

	var count int
	ts.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if count != 0 {
		t.Errorf("users = %d, want 0", count)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	ts := newTestStores(t)

	ts.user(t, "u1", "same@example.com")
	_, err := ts.users.Create("u2", "Other", "User", "same@example.com", "pw", "", false)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserAuthenticate(t *testing.T) {
	ts := newTestStores(t)

	created, err := ts.users.Create("eduardo", "Eduardo", "Coronado", "eduardo@example.com", "ilikethehabs", "", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := ts.users.Authenticate("eduardo@example.com", "ilikethehabs")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("id = %d, want %d", u.ID, created.ID)
	}
}

func TestUserAuthenticateWrongPassword(t *testing.T) {
	ts := newTestStores(t)

	ts.users.Create("eduardo", "Eduardo", "Coronado", "eduardo@example.com", "ilikethehabs", "", false)

	_, err := ts.users.Authenticate("eduardo@example.com", "wrong")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestUserAuthenticateUnknownEmail(t *testing.T) {
	ts := newTestStores(t)

	_, err := ts.users.Authenticate("nobody@example.com", "pw")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	ts := newTestStores(t)

	ts.user(t, "u1", "u1@example.com")

	u, err := ts.users.Update("u1@example.com",
		[]string{"first_name", "last_name", "phone_number"},
		[]string{"New", "Name", "514-555-0199"},
	)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.FirstName != "New" || u.LastName != "Name" {
		t.Errorf("name = %q %q", u.FirstName, u.LastName)
	}
	if u.PhoneNumber != "514-555-0199" {
		t.Errorf("phone = %q", u.PhoneNumber)
	}
}

func TestUserUpdatePassword(t *testing.T) {
	ts := newTestStores(t)

	ts.users.Create("u1", "First", "Last", "u1@example.com", "oldpw", "", false)

	if _, err := ts.users.Update("u1@example.com", []string{"password"}, []string{"newpw"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := ts.users.Authenticate("u1@example.com", "newpw"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := ts.users.Authenticate("u1@example.com", "oldpw"); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("old password still accepted")
	}
}

func TestUserUpdateMismatchedFields(t *testing.T) {
	ts := newTestStores(t)

	ts.user(t, "u1", "u1@example.com")
	_, err := ts.users.Update("u1@example.com", []string{"first_name", "last_name"}, []string{"only one"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserUpdateNotFound(t *testing.T) {
	ts := newTestStores(t)

	_, err := ts.users.Update("nobody@example.com", []string{"first_name"}, []string{"X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserUpdateUnknownColumn(t *testing.T) {
	ts := newTestStores(t)

	ts.user(t, "u1", "u1@example.com")
	_, err := ts.users.Update("u1@example.com", []string{"is_admin"}, []string{"1"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
