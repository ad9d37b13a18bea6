package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rpupo63/photo-portfolio/events"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Claims are carried by every issued token. Subject is the user id and ID the
// token id used for revocation.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Session is returned on sign-in.
type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

type Service struct {
	users     UserStore
	publisher Publisher
	secret    []byte
	ttl       time.Duration
	issuer    string
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

func NewService(settings config.AuthSettings, users UserStore, publisher Publisher) *Service {
	return &Service{
		users:     users,
		publisher: publisher,
		secret:    []byte(settings.JWTSecret),
		ttl:       settings.TokenTTL,
		issuer:    settings.Issuer,
		logger:    log.With().Str("component", "auth").Logger(),
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}
}

// SignIn checks the password against the stored bcrypt hash and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if email == "" {
		return Session{}, errs.NewMissingRequiredFieldError("email")
	}
	if password == "" {
		return Session{}, errs.NewMissingRequiredFieldError("password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return Session{}, errs.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, errs.NewInvalidCredentialsError()
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, errs.NewInternalErrorWithCause("failed to sign token", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("admin signed in")
	// Event subscribers are anonymous, so the payload never names the admin.
	s.publisher.Publish(events.TypeSignedIn, nil)

	return Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expires,
		User:        user,
	}, nil
}

// Verify parses and validates a bearer token.
func (s *Service) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}

	if s.isRevoked(claims.ID) {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(claims *Claims) {
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = expires
	s.mu.Unlock()

	s.logger.Info().Str("email", claims.Email).Msg("admin signed out")
	s.publisher.Publish(events.TypeSignedOut, nil)
}

func (s *Service) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// CurrentUser loads the user a token was issued to.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errs.NewInvalidTokenError()
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewUnauthorizedError("user no longer exists")
	}
	return user, nil
}

// HashPassword returns the bcrypt hash stored for an admin account.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", errs.NewInvalidFieldError("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
