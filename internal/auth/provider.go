// Package auth is the authentication provider boundary: it keeps local
// account credentials and a signed session token in the device store,
// and restores the session at process start.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/log"
	"github.com/kienmai98/Life/internal/storage"
)

const (
	accountsKey = "auth-accounts"
	tokenKey    = "auth-session"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// account pairs a user identity with its credential hash. Stored as a
// JSON map keyed by lowercased email.
type account struct {
	User         core.User `json:"user"`
	PasswordHash string    `json:"passwordHash"`
}

type sessionClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	jwt.RegisteredClaims
}

// Provider implements the external authentication boundary the session
// container consults.
type Provider struct {
	store    storage.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewProvider(store storage.Store, secret string, tokenTTL time.Duration) *Provider {
	return &Provider{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a local account and logs it in.
func (p *Provider) Register(ctx context.Context, email, password, displayName string) (*core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	accounts, err := p.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := accounts[email]; exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
	}
	accounts[email] = account{User: user, PasswordHash: string(hash)}

	if err := p.saveAccounts(ctx, accounts); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Account registered",
		log.FieldComponent, log.ComponentAuth,
		log.FieldUserID, user.ID,
		log.FieldEmail, email)

	return p.issueSession(ctx, user)
}

// Login verifies credentials and installs a fresh session token.
func (p *Provider) Login(ctx context.Context, email, password string) (*core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	accounts, err := p.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	acct, ok := accounts[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "Login succeeded",
		log.FieldComponent, log.ComponentAuth,
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, acct.User.ID)

	return p.issueSession(ctx, acct.User)
}

// CheckAuthState restores the persisted session, if any. Invoked once
// at process start. An expired or unreadable token is removed and
// treated as "logged out", never as an error.
func (p *Provider) CheckAuthState(ctx context.Context) *core.User {
	raw, ok, err := p.store.Get(ctx, tokenKey)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read session token",
			log.FieldComponent, log.ComponentAuth,
			log.FieldError, err)
		return nil
	}
	if !ok {
		return nil
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		slog.WarnContext(ctx, "Discarding invalid session token",
			log.FieldComponent, log.ComponentAuth,
			log.FieldError, err)
		if rmErr := p.store.Remove(ctx, tokenKey); rmErr != nil {
			slog.ErrorContext(ctx, "Failed to remove stale session token",
				log.FieldComponent, log.ComponentAuth,
				log.FieldError, rmErr)
		}
		return nil
	}

	return &core.User{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
	}
}

// Logout drops the stored session token.
func (p *Provider) Logout(ctx context.Context) {
	if err := p.store.Remove(ctx, tokenKey); err != nil {
		slog.ErrorContext(ctx, "Failed to remove session token",
			log.FieldComponent, log.ComponentAuth,
			log.FieldOperation, log.OpLogout,
			log.FieldError, err)
	}
}

func (p *Provider) issueSession(ctx context.Context, user core.User) (*core.User, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	if err := p.store.Set(ctx, tokenKey, signed); err != nil {
		// The login itself succeeded; the session just won't survive a
		// restart. Same degradation policy as every other mirror write.
		slog.ErrorContext(ctx, "Failed to persist session token",
			log.FieldComponent, log.ComponentAuth,
			log.FieldError, err)
	}
	u := user
	return &u, nil
}

func (p *Provider) loadAccounts(ctx context.Context) (map[string]account, error) {
	raw, ok, err := p.store.Get(ctx, accountsKey)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	accounts := make(map[string]account)
	if !ok {
		return accounts, nil
	}
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

func (p *Provider) saveAccounts(ctx context.Context, accounts map[string]account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := p.store.Set(ctx, accountsKey, string(raw)); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}
