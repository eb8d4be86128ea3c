// Package repository provides data access implementations
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/abelzeko/water-samples/internal/entities"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUserNotFound is returned when no credential entry exists for a username
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for the stored credential set
type UserRepository interface {
	GetUserByUsername(username string) (entities.User, error)
	SaveUser(user entities.User) error
	ListUsers() ([]entities.User, error)
	CountUsers() (int, error)
	Close() error
}

// SQLiteUserRepository implements UserRepository using SQLite
type SQLiteUserRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteUserRepository creates and initializes a new SQLite credential store
func NewSQLiteUserRepository(dbPath string) (*SQLiteUserRepository, error) {
	if dbPath == "" {
		dbPath = filepath.Join("data", "users.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	log.Printf("Opening credential database at %s", dbPath)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteUserRepository{
		db:     db,
		DBPath: dbPath,
	}, nil
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetUserByUsername looks up a single credential entry
func (r *SQLiteUserRepository) GetUserByUsername(username string) (entities.User, error) {
	var u entities.User
	err := r.db.QueryRow(
		`SELECT id, username, name, email, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.User{}, ErrUserNotFound
		}
		return entities.User{}, fmt.Errorf("failed to query user %s: %w", username, err)
	}
	return u, nil
}

// SaveUser inserts a user or replaces the name, email and hash of an existing one
func (r *SQLiteUserRepository) SaveUser(user entities.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users(username, name, email, password_hash)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
		name=excluded.name,
		email=excluded.email,
		password_hash=excluded.password_hash`,
		user.Username, user.Name, user.Email, user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	log.Printf("Saved credentials for user %s", user.Username)
	return nil
}

// ListUsers returns all stored users ordered by username
func (r *SQLiteUserRepository) ListUsers() ([]entities.User, error) {
	rows, err := r.db.Query(`SELECT id, username, name, email, password_hash FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return users, nil
}

// CountUsers returns the size of the credential set
func (r *SQLiteUserRepository) CountUsers() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
