// Package auth provides the pluggable login boundary: sqlite-backed users
// and sessions with bcrypt password hashes. It replaces the hardcoded
// credential pair of the original form with a bootstrapped account.
package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"doform/internal/models"
)

// SessionTTL is how long a session lives without activity. Authenticated
// requests slide the window forward.
const SessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("no valid session")
)

// Open opens the sqlite database with WAL mode, busy timeout and foreign
// keys enabled, and runs migrations.
func Open(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1")
	if err != nil {
		return nil, err
	}

	// Some drivers don't parse connection string params; set pragmas explicitly.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=10000"); err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the auth tables.
func Migrate(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT DEFAULT '',
			role TEXT DEFAULT 'user',
			active INTEGER DEFAULT 1,
			last_login TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}
	for _, ddl := range tables {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("migrate auth tables: %w", err)
		}
	}
	return nil
}

// Bootstrap ensures the configured admin account exists. Existing accounts
// are left untouched so an operator password change survives restarts.
func Bootstrap(db *sql.DB, username, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		"INSERT INTO users (username, password_hash, display_name, role) VALUES (?, ?, ?, 'admin')",
		username, string(hash), username)
	return err
}

// Login verifies credentials and creates a session, returning the user and
// the opaque session token.
func Login(db *sql.DB, username, password string) (models.User, string, error) {
	var u models.User
	var hash string
	var active int
	err := db.QueryRow(
		"SELECT id, username, display_name, role, password_hash, active FROM users WHERE username = ?",
		username).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &hash, &active)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if active == 0 {
		return models.User{}, "", ErrInvalidCredentials
	}

	// Clean expired sessions while we're here.
	db.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP")

	token := GenerateToken()
	expires := time.Now().Add(SessionTTL)
	_, err = db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, u.ID, expires.Format("2006-01-02 15:04:05"))
	if err != nil {
		return models.User{}, "", fmt.Errorf("create session: %w", err)
	}
	db.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", u.ID)

	return u, token, nil
}

// ValidateSession resolves a session token to its user, or ErrNoSession.
func ValidateSession(db *sql.DB, token string) (models.User, error) {
	var u models.User
	err := db.QueryRow(`SELECT u.id, u.username, u.display_name, u.role
		FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP AND u.active = 1`,
		token).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role)
	if err != nil {
		return models.User{}, ErrNoSession
	}
	return u, nil
}

// TouchSession extends a session's expiry (sliding window) and returns the
// new expiry time.
func TouchSession(db *sql.DB, token string) time.Time {
	expires := time.Now().Add(SessionTTL)
	db.Exec("UPDATE sessions SET expires_at = ? WHERE token = ?",
		expires.Format("2006-01-02 15:04:05"), token)
	return expires
}

// DeleteSession removes a session token (logout).
func DeleteSession(db *sql.DB, token string) {
	db.Exec("DELETE FROM sessions WHERE token = ?", token)
}

// GenerateToken returns a 256-bit random hex token.
func GenerateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
