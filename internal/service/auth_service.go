package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"onlinecourse/internal/cache"
	"onlinecourse/internal/config"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/repository"
	"onlinecourse/internal/util"
	"onlinecourse/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgDuplicateUsername  = "Username already exists."
	msgInvalidCredentials = "Invalid username or password."
)

var (
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrSessionRevoked      = errors.New("session has been logged out")
)

// SessionClaims are carried by the signed session cookie.
type SessionClaims struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for account registration and sessions.
type AuthService interface {
	// Register creates the account with its learner profile and signs it in.
	Register(ctx context.Context, form dto.RegistrationForm) (*domain.Account, string, error)
	Login(ctx context.Context, form dto.LoginForm) (*domain.Account, string, error)
	// Logout revokes token until it would have expired. Unparseable tokens are ignored.
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	SessionTTL() time.Duration
}

type authServiceImpl struct {
	accounts  domain.AccountRepository
	learners  domain.LearnerRepository
	tx        domain.TransactionManager
	cache     domain.Cache
	validator *validation.Validator
	secret    []byte
	ttl       time.Duration
}

// NewAuthService creates a new instance of AuthService. cache may be nil, in
// which case logout only clears the cookie.
func NewAuthService(
	accounts domain.AccountRepository,
	learners domain.LearnerRepository,
	tx domain.TransactionManager,
	cache domain.Cache,
	validator *validation.Validator,
	authCfg config.AuthConfig,
) (AuthService, error) {
	if len(authCfg.SecretKey) < 32 {
		return nil, errors.New("auth secret key must be at least 32 bytes long")
	}
	ttl := authCfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authServiceImpl{
		accounts:  accounts,
		learners:  learners,
		tx:        tx,
		cache:     cache,
		validator: validator,
		secret:    []byte(authCfg.SecretKey),
		ttl:       ttl,
	}, nil
}

func (s *authServiceImpl) SessionTTL() time.Duration {
	return s.ttl
}

func (s *authServiceImpl) Register(ctx context.Context, form dto.RegistrationForm) (*domain.Account, string, error) {
	form.Username = strings.TrimSpace(form.Username)
	if errs := s.validator.Struct(form); errs != nil {
		return nil, "", errs
	}

	existing, err := s.accounts.GetByUsername(ctx, form.Username)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to look up username", err)
	}
	if existing != nil {
		return nil, "", domain.NewError(domain.CodeDuplicateUsername, msgDuplicateUsername, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to hash password", err)
	}

	account := domain.NewAccount(form.Username, strings.TrimSpace(form.FirstName), strings.TrimSpace(form.LastName))
	account.ID = util.NewULID()
	account.PasswordHash = string(hash)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, account); err != nil {
			return err
		}
		return s.learners.Create(ctx, &domain.Learner{
			ID:         util.NewULID(),
			AccountID:  account.ID,
			Username:   account.Username,
			Occupation: domain.OccupationStudent,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, "", domain.NewError(domain.CodeDuplicateUsername, msgDuplicateUsername, err)
		}
		logger.Get().Error("Failed to register account", zap.String("username", form.Username), zap.Error(err))
		return nil, "", domain.NewInternalError("failed to create account", err)
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, "", err
	}
	logger.Get().Info("Account registered", zap.String("accountID", account.ID), zap.String("username", account.Username))
	return account, token, nil
}

func (s *authServiceImpl) Login(ctx context.Context, form dto.LoginForm) (*domain.Account, string, error) {
	form.Username = strings.TrimSpace(form.Username)
	if errs := s.validator.Struct(form); errs != nil {
		return nil, "", errs
	}

	account, err := s.accounts.GetByUsername(ctx, form.Username)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to look up account", err)
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(form.Password)) != nil {
		return nil, "", domain.NewError(domain.CodeInvalidCredentials, msgInvalidCredentials, nil)
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" || s.cache == nil {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, cache.RevokedSessionKey(claims.ID), "1", remaining); err != nil {
		logger.Get().Error("Failed to revoke session", zap.String("accountID", claims.Subject), zap.Error(err))
		return domain.NewInternalError("failed to revoke session", err)
	}
	return nil
}

// Authenticate fails closed when the revocation list or the account cannot be read.
// The identity reflects the stored account, so a deleted account loses its
// sessions and a staff change applies on the next request.
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		revoked, err := s.cache.Exists(ctx, cache.RevokedSessionKey(claims.ID))
		if err != nil {
			logger.Get().Warn("Failed to check session revocation", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		logger.Get().Warn("Failed to load session account", zap.String("accountID", claims.Subject), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s no longer exists", ErrInvalidSessionToken, claims.Subject)
	}
	return &domain.Identity{AccountID: account.ID, Username: account.Username, IsStaff: account.IsStaff}, nil
}

func (s *authServiceImpl) issue(account *domain.Account) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: account.Username,
		IsStaff:  account.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign session token", err)
	}
	return signed, nil
}

func (s *authServiceImpl) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
