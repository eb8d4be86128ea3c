package entities

// AuthStatus is the outcome of a credential check
type AuthStatus int

const (
	AuthPending AuthStatus = iota
	AuthRejected
	AuthAuthenticated
)

func (s AuthStatus) String() string {
	switch s {
	case AuthRejected:
		return "rejected"
	case AuthAuthenticated:
		return "authenticated"
	}
	return "pending"
}

// Identity is the user a session was opened for
type Identity struct {
	Username string
	Name     string
	Email    string
	Status   AuthStatus
}

// Authenticated reports whether the identity passed the credential check
func (i Identity) Authenticated() bool {
	return i.Status == AuthAuthenticated
}

// User is a stored credential entry
type User struct {
	ID           int64
	Username     string
	Name         string
	Email        string
	PasswordHash string // bcrypt
}
