// Package auth holds the registered-account roster and the single current
// session. The admin and manager identities are fixed constants checked
// before the roster; they are never persisted as registerable accounts.
package auth

import (
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/utils"
)

var (
	// ErrRejected is the single login failure: no "user not found" vs
	// "bad password" distinction leaks to the caller.
	ErrRejected = errors.New("invalid username or password")

	ErrUserExists      = errors.New("username or email already registered")
	ErrReservedName    = errors.New("username is reserved")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidRegister = errors.New("username, email and password are required")
)

const (
	adminUsername = "admin"
	adminPassword = "electrocityAD"

	managerUsername = "manager"
	managerPassword = "manager2025"
)

var adminIdentity = models.User{
	ID:        "admin-001",
	Username:  adminUsername,
	Email:     "admin@electrocity.ru",
	Role:      models.RoleAdmin,
	FirstName: "Александр",
	LastName:  "Дмитриев",
}

var managerIdentity = models.User{
	ID:        "manager-001",
	Username:  managerUsername,
	Email:     "manager@progressgarant.ru",
	Role:      models.RoleManager,
	FirstName: "Менеджер",
	LastName:  "Поддержки",
}

// RegisterDraft is caller-supplied registration input.
type RegisterDraft struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Service reads and writes the roster and session slots of the substrate.
type Service struct {
	store kv.Store
}

func New(store kv.Store) *Service {
	return &Service{store: store}
}

// Login checks the fixed admin identity, then the fixed manager identity,
// then the roster. First match wins, so a roster account can never shadow
// the staff usernames. On success the session is persisted with a signed
// token; it survives reloads until an explicit logout.
func (s *Service) Login(username, password string) (models.User, error) {
	if username == adminUsername && password == adminPassword {
		return s.startSession(adminIdentity)
	}
	if username == managerUsername && password == managerPassword {
		return s.startSession(managerIdentity)
	}

	for _, u := range s.roster() {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return models.User{}, ErrRejected
		}
		return s.startSession(u)
	}
	return models.User{}, ErrRejected
}

// Register appends a new role:user account to the roster. Duplicate username
// or email is rejected with no state change; the reserved staff usernames are
// rejected outright. Does not auto-login.
func (s *Service) Register(draft RegisterDraft) (models.User, error) {
	draft.Username = strings.TrimSpace(draft.Username)
	draft.Email = strings.TrimSpace(draft.Email)
	if draft.Username == "" || draft.Email == "" || draft.Password == "" {
		return models.User{}, ErrInvalidRegister
	}
	if draft.Username == adminUsername || draft.Username == managerUsername {
		return models.User{}, ErrReservedName
	}

	roster := s.roster()
	for _, u := range roster {
		if u.Username == draft.Username || u.Email == draft.Email {
			return models.User{}, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           utils.NewID(),
		Username:     draft.Username,
		Email:        draft.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		FirstName:    draft.FirstName,
		LastName:     draft.LastName,
		Phone:        draft.Phone,
	}
	roster = append(roster, user)
	if err := kv.WriteJSON(s.store, globals.KeyUsers, roster); err != nil {
		return models.User{}, err
	}
	return sanitize(user), nil
}

// Logout clears the session. The roster is untouched.
func (s *Service) Logout() {
	s.store.Delete(globals.KeyUser)
	s.store.Delete(globals.KeyToken)
}

// CurrentUser returns the authenticated identity, or nil for a guest. The
// stored token is validated on every call; an expired or tampered token
// degrades to guest and the stale session is cleared.
func (s *Service) CurrentUser() *models.User {
	raw, ok := s.store.Get(globals.KeyToken)
	if !ok {
		return nil
	}
	if _, err := validateToken(string(raw)); err != nil {
		log.Printf("auth: discarding stale session: %v", err)
		s.Logout()
		return nil
	}

	user := kv.ReadJSON(s.store, globals.KeyUser, models.User{})
	if user.ID == "" {
		return nil
	}
	return &user
}

// Derived flags: pure functions of the current session, recomputed on every
// access, never persisted on their own.

func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func (s *Service) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.Role == models.RoleAdmin
}

func (s *Service) IsManager() bool {
	u := s.CurrentUser()
	return u != nil && u.Role == models.RoleManager
}

func (s *Service) IsStaff() bool {
	u := s.CurrentUser()
	return u != nil && (u.Role == models.RoleAdmin || u.Role == models.RoleManager)
}

// ListUsers returns the roster without password hashes, for the admin panel.
func (s *Service) ListUsers() []models.User {
	roster := s.roster()
	out := make([]models.User, 0, len(roster))
	for _, u := range roster {
		out = append(out, sanitize(u))
	}
	return out
}

// Promote rewrites a roster entry's role. When the promoted identity is the
// live session, the session copy and token are rewritten too, so a session
// observes its own promotion without re-login.
func (s *Service) Promote(userID, role string) error {
	if role != models.RoleUser && role != models.RoleManager && role != models.RoleAdmin {
		return errors.New("unknown role")
	}

	roster := s.roster()
	idx := -1
	for i, u := range roster {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrUserNotFound
	}

	roster[idx].Role = role
	if err := kv.WriteJSON(s.store, globals.KeyUsers, roster); err != nil {
		return err
	}

	if current := s.CurrentUser(); current != nil && current.ID == userID {
		if _, err := s.startSession(roster[idx]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) startSession(user models.User) (models.User, error) {
	token, err := generateToken(user)
	if err != nil {
		return models.User{}, err
	}
	clean := sanitize(user)
	if err := kv.WriteJSON(s.store, globals.KeyUser, clean); err != nil {
		return models.User{}, err
	}
	if err := s.store.Set(globals.KeyToken, []byte(token)); err != nil {
		return models.User{}, err
	}
	return clean, nil
}

func (s *Service) roster() []models.User {
	return kv.ReadJSON(s.store, globals.KeyUsers, []models.User(nil))
}

func sanitize(u models.User) models.User {
	u.PasswordHash = ""
	return u
}
