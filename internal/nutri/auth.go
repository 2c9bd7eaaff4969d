package nutri

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

// SignUp registers a new account. It does not sign the user in.
func (s *NutriService) SignUp(ctx context.Context, email, password string) (User, error) {
	const op = "SignUp"

	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, authErr(op, err)
	}
	if len(password) < MinPasswordLength {
		return User{}, authErr(op, fmt.Errorf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, authErr(op, fmt.Errorf("hashing password: %w", err))
	}

	rec := &UserRecord{
		User:         User{ID: s.idgen.New(), Email: email},
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.database.CreateUser(ctx, rec); err != nil {
		if errors.Is(err, ErrConflict) {
			return User{}, authErr(op, ErrDuplicateAccount)
		}
		return User{}, storeErr(op, err)
	}

	s.logger.Info("account created", "user_id", rec.ID, "email", email)
	return rec.User, nil
}

// SignIn checks the credentials and, on success, populates sess with the
// account's identity. On failure sess is left unchanged.
func (s *NutriService) SignIn(ctx context.Context, sess *Session, email, password string) (User, error) {
	const op = "SignIn"

	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, authErr(op, ErrInvalidCredentials)
	}

	rec, err := s.database.FindUserByEmail(ctx, email)
	if err != nil {
		return User{}, storeErr(op, err)
	}
	if rec == nil {
		s.hasher.Verify(s.unknownAccountHash(), password)
		s.logger.Warn("sign in rejected", "email", email)
		return User{}, authErr(op, ErrInvalidCredentials)
	}
	if !s.hasher.Verify(rec.PasswordHash, password) {
		s.logger.Warn("sign in rejected", "email", email)
		return User{}, authErr(op, ErrInvalidCredentials)
	}

	sess.SetUser(rec.User)
	s.logger.Info("signed in", "user_id", rec.ID)
	return rec.User, nil
}

// SignOut clears the session.
func (s *NutriService) SignOut(sess *Session) {
	if u, ok := sess.CurrentUser(); ok {
		s.logger.Info("signed out", "user_id", u.ID)
	}
	sess.Clear()
}

// unknownAccountHash returns a hash made by the configured hasher for a
// password no account has.
func (s *NutriService) unknownAccountHash() string {
	s.unknownOnce.Do(func() {
		h, err := s.hasher.Hash("unknown account")
		if err != nil {
			s.logger.Warn("hashing placeholder password failed", "error", err)
		}
		s.unknownHash = h
	})
	return s.unknownHash
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", fmt.Errorf("invalid email address %q", raw)
	}
	return strings.ToLower(addr.Address), nil
}
