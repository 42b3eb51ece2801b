package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/db/controller/user"
	"github.com/taskflow-app/taskflow/internal/db/models"
)

const (
	// MinNameLength is the shortest accepted display name, in characters.
	MinNameLength = 1
	// MaxNameLength is the longest accepted display name, in characters.
	MaxNameLength = 20
	// MinPasswordLength is the shortest accepted password, in characters.
	MinPasswordLength = 6

	// compared against when the email is unknown, so both login failures hash once
	dummyPassword = "taskflow-dummy-password"
)

// CredentialStore finds and creates user records.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// SessionAuthority establishes and destroys sessions.
type SessionAuthority interface {
	Establish(ctx context.Context, u *models.User, remember bool) (*Session, error)
	Destroy(ctx context.Context, sess *Session) error
}

// SignupOutcome tells the caller what to present after a successful signup.
type SignupOutcome int

// Signup outcomes.
const (
	// SuccessNoSession means the account exists and the login prompt should follow.
	SuccessNoSession SignupOutcome = iota + 1
	// SuccessWithSession means the account exists and the user is logged in.
	SuccessWithSession
)

// LoginResult is the result of a successful login.
type LoginResult struct {
	User    *models.User
	Session *Session
}

// SignupResult is the result of a successful signup. Session is nil for SuccessNoSession.
type SignupResult struct {
	User    *models.User
	Session *Session
	Outcome SignupOutcome
}

// Controller runs the login, signup and logout flows.
type Controller struct {
	store      CredentialStore
	sessions   SessionAuthority
	hashParams *argon2id.Params
	dummyHash  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHashParams sets the argon2id parameters used for new password hashes.
func WithHashParams(params *argon2id.Params) Option {
	return func(c *Controller) {
		c.hashParams = params
	}
}

// NewController creates a controller on its two collaborators.
func NewController(store CredentialStore, sessions SessionAuthority, opts ...Option) (*Controller, error) {
	if store == nil || sessions == nil {
		return nil, ErrNilCollaborator
	}

	c := &Controller{
		store:      store,
		sessions:   sessions,
		hashParams: argon2id.DefaultParams,
	}

	for _, opt := range opts {
		opt(c)
	}

	dummy, err := models.HashPassword(dummyPassword, c.hashParams)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	c.dummyHash = dummy

	return c, nil
}

// Login authenticates in and establishes a session, remembered if in.RememberMe is set.
func (c *Controller) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	res, err := c.login(ctx, in.normalize())
	record(opLogin, err)

	return res, err
}

func (c *Controller) login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := checkPresence(in); err != nil {
		return nil, err
	}

	u, err := c.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		models.VerifyPasswordHash(in.Password, c.dummyHash)
		log.Debug().Str("email", in.Email).Msg("login rejected: unknown email")

		return nil, ErrInvalidCredentials
	}

	if !u.VerifyPassword(in.Password) {
		log.Debug().Uint64("user_id", u.ID).Msg("login rejected: password mismatch")
		return nil, ErrInvalidCredentials
	}

	sess, err := c.sessions.Establish(ctx, u, in.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	log.Debug().Uint64("user_id", u.ID).Bool("remember", in.RememberMe).Msg("user logged in")

	return &LoginResult{User: u, Session: sess}, nil
}

// Signup creates an account. With in.AutoLogin a remembered session is established as well.
func (c *Controller) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	res, err := c.signup(ctx, in.normalize())
	record(opSignup, err)

	return res, err
}

func (c *Controller) signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := checkPresence(in); err != nil {
		return nil, err
	}

	_, err := c.store.FindByEmail(ctx, in.Email)

	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err = checkSignupRules(in); err != nil {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password, c.hashParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Email:    in.Email,
		Name:     in.Name,
		Password: hash,
	}

	if err = c.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Uint64("user_id", u.ID).Msg("account created")

	if !in.AutoLogin {
		return &SignupResult{User: u, Outcome: SuccessNoSession}, nil
	}

	sess, err := c.sessions.Establish(ctx, u, true)
	if err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	return &SignupResult{User: u, Session: sess, Outcome: SuccessWithSession}, nil
}

// Logout destroys sess. A nil session is a no-op.
func (c *Controller) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}

	err := c.sessions.Destroy(ctx, sess)
	record(opLogout, err)

	if err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	log.Debug().Uint64("user_id", sess.UserID).Msg("user logged out")

	return nil
}
