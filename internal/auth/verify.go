package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"mangapanel/pkg/models"
)

// Verifier checks an email/password pair against stored users.
type Verifier struct {
	Repo *Repo
}

// Verify returns the matching user, or nil for every negative case:
// unknown email, account with no password set (externally authenticated),
// or wrong password. Callers cannot tell the cases apart.
func (v Verifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	u, err := v.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return u, nil
}
