package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
)

type adminAccount struct {
	email string
	role  model.Role
	hash  []byte
}

// StaticAdmins authenticates against accounts declared in configuration
// until the users table exists.
type StaticAdmins struct {
	accounts map[string]adminAccount
}

var _ Authenticator = (*StaticAdmins)(nil)

// ParseStaticAdmins reads "email:role:bcrypt-hash" entries separated by commas.
func ParseStaticAdmins(raw string) (*StaticAdmins, error) {
	s := &StaticAdmins{accounts: make(map[string]adminAccount)}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, appErr.NewInvalidInput("admin entry %q must be email:role:hash", entry)
		}
		email := strings.ToLower(strings.TrimSpace(parts[0]))
		role := model.Role(parts[1])
		if !role.AtLeast(model.RoleEditor) {
			return nil, appErr.NewInvalidInput("admin %q has unknown role %q", email, parts[1])
		}
		if _, err := bcrypt.Cost([]byte(parts[2])); err != nil {
			return nil, appErr.NewInvalidInput("admin %q has an invalid password hash: %v", email, err)
		}
		s.accounts[email] = adminAccount{email: email, role: role, hash: []byte(parts[2])}
	}
	return s, nil
}

func (s *StaticAdmins) Authenticate(_ context.Context, email, password string) (*Identity, error) {
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		// Compare anyway so unknown emails cost the same as bad passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, appErr.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, appErr.ErrUnauthorized
	}
	return &Identity{UserID: "admin:" + acc.email, Email: acc.email, Role: acc.role}, nil
}

func (s *StaticAdmins) Len() int { return len(s.accounts) }

var dummyHash = mustHash("not-a-real-password")

func mustHash(pw string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("auth: hashing dummy password: %v", err))
	}
	return h
}
