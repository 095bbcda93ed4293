package user

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"relaychat/module/user/model"
	"relaychat/tools/errs"
	"relaychat/tools/security"
)

// Service implements registration and login on top of the store.
type Service struct {
	store   *Store
	jwtOpts security.Options
}

func NewService(store *Store, jwtOpts security.Options) *Service {
	return &Service{store: store, jwtOpts: jwtOpts}
}

var (
	ErrInvalidCredentials = errs.NewCodeError(11010, "Invalid credentials.")
	ErrUsernameTaken      = errs.NewCodeError(11011, "Username already exists.")
	ErrBadInput           = errs.NewCodeError(12010, "username and password are required")
)

// Register hashes the password and creates the account.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrBadInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return errs.WrapMsg(err, "hash password")
	}
	err = s.store.Insert(ctx, &model.User{Username: username, PasswordHash: string(hash)})
	if IsDup(err) {
		return ErrUsernameTaken
	}
	return err
}

// Login verifies the password and issues a credential.
func (s *Service) Login(ctx context.Context, username, password string) (token string, expireAt time.Time, err error) {
	u, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", time.Time{}, err
	}
	if u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return security.Generate(s.jwtOpts, security.Identity{ID: u.ID.Hex(), Username: u.Username})
}
