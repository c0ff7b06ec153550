package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLength = 72
)

var (
	ErrInvalidEmail    = errors.New("email address is invalid")
	ErrWeakPassword    = fmt.Errorf("password must be %d to %d bytes long", minPasswordLength, maxPasswordLength)
	ErrDisplayNameSize = errors.New("display name must be at most 80 characters")
)

// Session is the result of a successful sign-in, sign-up or refresh.
type Session struct {
	User   model.User
	Tokens model.TokenPair
}

// Auth is the identity provider: it registers users, authenticates them and
// announces every identity change on the session publisher.
type Auth struct {
	users        model.UserStore
	tokenService *TokenService
	publisher    model.SessionPublisher
	logger       *logger.Logger
	bcryptCost   int
	now          func() time.Time
}

func NewAuth(
	users model.UserStore,
	tokenService *TokenService,
	publisher model.SessionPublisher,
	logger *logger.Logger,
	bcryptCost int,
) *Auth {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Auth{
		users:        users,
		tokenService: tokenService,
		publisher:    publisher,
		logger:       logger,
		bcryptCost:   bcryptCost,
		now:          time.Now,
	}
}

// SignUp registers a new user and signs them in.
func (a *Auth) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return Session{}, ErrWeakPassword
	}
	displayName = strings.TrimSpace(displayName)
	if len([]rune(displayName)) > 80 {
		return Session{}, ErrDisplayNameSize
	}

	a.logger.Debug("Auth service: registering user", "email", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: email already registered", "email", email)
			return Session{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	return a.startSession(ctx, user)
}

// SignIn authenticates by email and password.
func (a *Auth) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, model.ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Session{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch", "user_id", user.ID)
		return Session{}, model.ErrInvalidCredentials
	}

	return a.startSession(ctx, user)
}

// Refresh rotates the refresh token.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	userID, pair, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		return Session{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	a.publisher.Publish(model.SessionEvent{Type: model.SessionRefreshed, UserID: userID})
	return Session{User: user, Tokens: pair}, nil
}

// SignOut revokes the user's own refresh token, or every token of the user when all is set.
func (a *Auth) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string, all bool) error {
	if all || refreshToken == "" {
		if err := a.tokenService.RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
	} else {
		if err := a.tokenService.RevokeByToken(ctx, userID, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
	}

	a.logger.Info("Auth service: user signed out", "user_id", userID, "all", all)
	a.publisher.Publish(model.SessionEvent{Type: model.SessionSignedOut, UserID: userID})
	return nil
}

// Authenticate resolves an access token to its user id.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return a.tokenService.GetUserID(ctx, accessToken)
}

func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateDisplayName sets or, with an empty name, clears the explicit display name.
func (a *Auth) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (model.User, error) {
	displayName = strings.TrimSpace(displayName)
	if len([]rune(displayName)) > 80 {
		return model.User{}, ErrDisplayNameSize
	}

	user, err := a.users.UpdateDisplayName(ctx, userID, displayName)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update display name: %w", err)
	}

	a.publisher.Publish(model.SessionEvent{Type: model.SessionProfileUpdated, UserID: userID})
	return user, nil
}

func (a *Auth) startSession(ctx context.Context, user model.User) (Session, error) {
	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user signed in", "user_id", user.ID)
	a.publisher.Publish(model.SessionEvent{Type: model.SessionSignedIn, UserID: user.ID})
	return Session{User: user, Tokens: pair}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
