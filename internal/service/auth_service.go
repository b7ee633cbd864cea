package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
)

// ErrInvalidCredentials covers unknown usernames, wrong passwords and
// deactivated accounts alike so login failures never leak which part was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Sections and actions granted to the bootstrap operator.
var bootstrapPermissions = map[string][]string{
	"users":      {"view", "edit", "delete"},
	"degrees":    {"view", "edit"},
	"content":    {"view", "edit", "delete"},
	"attendance": {"view"},
}

// AuthService authenticates portal operators and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	repo     repository.AdminRepository
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService constructs an auth service signing tokens with the given
// HMAC secret.
func NewAuthService(repo repository.AdminRepository, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	account, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, fmt.Errorf("load account %s: %w", req.Username, err)
	}

	if !account.Active {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   account.Username,
		"name":  account.FullName,
		"perms": account.Permissions,
		"iat":   issuedAt.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("username", account.Username).Msg("operator logged in")
	return dto.LoginResponse{
		Token:       signed,
		ExpiresAt:   expiresAt,
		FullName:    account.FullName,
		Permissions: account.Permissions,
	}, nil
}

// EnsureBootstrapAdmin creates the initial operator account if it does not
// exist yet, so a fresh deployment is reachable without manual store edits.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("check bootstrap account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	account := models.AdminAccount{
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Permissions:  bootstrapPermissions,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, &account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("create bootstrap account: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("bootstrap operator created")
	return nil
}
