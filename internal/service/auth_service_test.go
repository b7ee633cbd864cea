package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
)

type fakeAdminRepo struct {
	accounts map[string]models.AdminAccount
}

func newFakeAdminRepo(accounts ...models.AdminAccount) *fakeAdminRepo {
	repo := &fakeAdminRepo{accounts: make(map[string]models.AdminAccount, len(accounts))}
	for _, account := range accounts {
		repo.accounts[account.Username] = account
	}
	return repo
}

func (f *fakeAdminRepo) GetByUsername(_ context.Context, username string) (models.AdminAccount, error) {
	account, ok := f.accounts[username]
	if !ok {
		return models.AdminAccount{}, mongo.ErrNoDocuments
	}
	return account, nil
}

func (f *fakeAdminRepo) Create(_ context.Context, account *models.AdminAccount) error {
	f.accounts[account.Username] = *account
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginIssuesTokenWithPermissionClaims(t *testing.T) {
	perms := map[string][]string{"users": {"view", "edit"}}
	repo := newFakeAdminRepo(models.AdminAccount{
		Username:     "abouna",
		FullName:     "Father Bishoy",
		PasswordHash: hashPassword(t, "secret"),
		Permissions:  perms,
		Active:       true,
	})
	svc := NewAuthService(repo, "signing-secret", time.Hour, zerolog.Nop())

	response, err := svc.Login(context.Background(), dto.LoginRequest{Username: "abouna", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "Father Bishoy", response.FullName)
	require.Equal(t, perms, response.Permissions)

	token, err := jwt.Parse(response.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("signing-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "abouna", claims["sub"])
	require.Contains(t, claims, "perms")
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	repo := newFakeAdminRepo(
		models.AdminAccount{Username: "active", PasswordHash: hashPassword(t, "right"), Active: true},
		models.AdminAccount{Username: "disabled", PasswordHash: hashPassword(t, "right"), Active: false},
	)
	svc := NewAuthService(repo, "signing-secret", time.Hour, zerolog.Nop())

	cases := []dto.LoginRequest{
		{Username: "missing", Password: "whatever"},
		{Username: "active", Password: "wrong"},
		{Username: "disabled", Password: "right"},
	}
	for _, request := range cases {
		_, err := svc.Login(context.Background(), request)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestEnsureBootstrapAdminIsIdempotent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(repo, "signing-secret", time.Hour, zerolog.Nop())

	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), "admin", "bootstrap"))
	created := repo.accounts["admin"]
	require.True(t, created.Active)

	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), "admin", "changed"))
	require.Equal(t, created.PasswordHash, repo.accounts["admin"].PasswordHash)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "bootstrap"})
	require.NoError(t, err)
}

func TestEnsureBootstrapAdminSkipsWhenUnconfigured(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(repo, "signing-secret", time.Hour, zerolog.Nop())

	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), "", ""))
	require.Empty(t, repo.accounts)
}
