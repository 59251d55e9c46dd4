package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"everydollar/internal/core"
	applog "everydollar/internal/log"
)

type UserStore interface {
	CreateUser(ctx context.Context, username string, passwordHash []byte) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(claim string) (string, error)
	Verify(token string) (string, error)
}

// CredentialService registers users, checks their passwords and turns
// session tokens back into users.
type CredentialService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewCredentialService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *CredentialService {
	return &CredentialService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a user and returns its id. The password is stored only
// as a bcrypt digest.
func (s *CredentialService) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if err := core.ValidateCredentials(username, password); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			return 0, core.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentAuth).InfoContext(ctx, "User registered",
		applog.FieldUserID, id,
		applog.FieldOperation, applog.OpRegister)
	return id, nil
}

// Verify returns the id of the user whose password matches. Unknown users
// and wrong passwords both yield core.ErrInvalidCredentials after the same
// amount of bcrypt work.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, core.ErrNotFound):
		_, _ = s.hasher.Compare(nil, password)
		return 0, core.ErrInvalidCredentials
	case err != nil:
		return 0, fmt.Errorf("load user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, core.ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login verifies the credentials and issues a session token.
func (s *CredentialService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentAuth)

	id, err := s.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			logger.WarnContext(ctx, "Login rejected", applog.FieldOperation, applog.OpLogin)
		}
		return "", err
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "User logged in",
		applog.FieldUserID, id,
		applog.FieldOperation, applog.OpLogin)
	return token, nil
}

// IssueToken signs a session token for an already-registered username.
func (s *CredentialService) IssueToken(username string) (string, error) {
	return s.tokens.Issue(strings.TrimSpace(username))
}

// FindByIdentityClaim resolves a token's username claim to the user record.
func (s *CredentialService) FindByIdentityClaim(ctx context.Context, claim string) (core.User, error) {
	user, err := s.users.GetUserByUsername(ctx, claim)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.ErrNotFound
		}
		return core.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a bearer token and loads its user. A token whose
// user no longer exists is treated as invalid.
func (s *CredentialService) Authenticate(ctx context.Context, token string) (core.User, error) {
	claim, err := s.tokens.Verify(token)
	if err != nil {
		return core.User{}, err
	}

	user, err := s.FindByIdentityClaim(ctx, claim)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("%w: user no longer exists", core.ErrTokenInvalid)
	}
	if err != nil {
		return core.User{}, err
	}
	return user, nil
}
