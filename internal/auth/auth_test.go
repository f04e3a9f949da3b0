package auth

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBootstrapAndLogin(t *testing.T) {
	db := setupDB(t)
	if err := Bootstrap(db, "leader", "fbkm123"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	user, token, err := Login(db, "leader", "fbkm123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "leader" || user.Role != "admin" {
		t.Errorf("wrong user: %+v", user)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	got, err := ValidateSession(db, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Username != "leader" {
		t.Errorf("wrong session user: %+v", got)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	db := setupDB(t)
	if err := Bootstrap(db, "leader", "first"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	// Second bootstrap with a different password must not reset the account.
	if err := Bootstrap(db, "leader", "second"); err != nil {
		t.Fatalf("bootstrap again: %v", err)
	}
	if _, _, err := Login(db, "leader", "first"); err != nil {
		t.Errorf("original password must still work: %v", err)
	}
	if _, _, err := Login(db, "leader", "second"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("second password must not work, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupDB(t)
	Bootstrap(db, "leader", "fbkm123")
	if _, _, err := Login(db, "leader", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := Login(db, "nobody", "fbkm123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestInactiveUserCannotLogin(t *testing.T) {
	db := setupDB(t)
	Bootstrap(db, "leader", "fbkm123")
	db.Exec("UPDATE users SET active = 0 WHERE username = 'leader'")
	if _, _, err := Login(db, "leader", "fbkm123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	db := setupDB(t)
	Bootstrap(db, "leader", "fbkm123")
	_, token, err := Login(db, "leader", "fbkm123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	DeleteSession(db, token)
	if _, err := ValidateSession(db, token); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after delete, got %v", err)
	}
}

func TestExpiredSessionInvalid(t *testing.T) {
	db := setupDB(t)
	Bootstrap(db, "leader", "fbkm123")
	token := GenerateToken()
	db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, 1, '2000-01-01 00:00:00')", token)
	if _, err := ValidateSession(db, token); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession for expired token, got %v", err)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	a, b := GenerateToken(), GenerateToken()
	if a == b {
		t.Error("tokens must be unique")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
