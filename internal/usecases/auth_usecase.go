package usecases

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase is the identity gate in front of the sample form
type AuthUseCase struct {
	repo repository.UserRepository
	cost int
}

// NewAuthUseCase creates a new auth use case over a stored credential set
func NewAuthUseCase(repo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

// Check verifies submitted credentials. Nothing submitted yields AuthPending,
// an unknown user or wrong password yields AuthRejected.
func (uc *AuthUseCase) Check(username, password string) entities.Identity {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return entities.Identity{Username: username, Status: entities.AuthPending}
	}

	user, err := uc.repo.GetUserByUsername(username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("Error looking up user %s: %v", username, err)
		}
		log.Printf("Rejected login for unknown user %s", username)
		return entities.Identity{Username: username, Status: entities.AuthRejected}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("Rejected login for user %s: wrong password", username)
		return entities.Identity{Username: username, Status: entities.AuthRejected}
	}

	log.Printf("User %s authenticated", username)
	return entities.Identity{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Status:   entities.AuthAuthenticated,
	}
}

// AddUser hashes the password and stores the user, replacing any previous entry
func (uc *AuthUseCase) AddUser(username, name, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	hash, err := HashPassword(password, uc.cost)
	if err != nil {
		return err
	}
	return uc.repo.SaveUser(entities.User{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

// SeedUsers stores the given entries only when the credential set is empty.
// Each entry is "username:name:email:bcrypt-hash".
func (uc *AuthUseCase) SeedUsers(entries []string) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	n, err := uc.repo.CountUsers()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("Credential store already holds %d users, skipping seed", n)
		return 0, nil
	}

	for _, entry := range entries {
		user, err := ParseSeedUser(entry)
		if err != nil {
			return 0, err
		}
		if err := uc.repo.SaveUser(user); err != nil {
			return 0, err
		}
	}
	log.Printf("Seeded %d users into the credential store", len(entries))
	return len(entries), nil
}

// ParseSeedUser parses one "username:name:email:bcrypt-hash" entry
func ParseSeedUser(entry string) (entities.User, error) {
	parts := strings.SplitN(strings.TrimSpace(entry), ":", 4)
	if len(parts) != 4 || parts[0] == "" || parts[3] == "" {
		return entities.User{}, fmt.Errorf("invalid seed user entry %q: want username:name:email:hash", entry)
	}
	if _, err := bcrypt.Cost([]byte(parts[3])); err != nil {
		return entities.User{}, fmt.Errorf("invalid password hash for %s: %w", parts[0], err)
	}
	return entities.User{
		Username:     parts[0],
		Name:         parts[1],
		Email:        parts[2],
		PasswordHash: parts[3],
	}, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
