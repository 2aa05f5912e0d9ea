package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onix-commerce/onix-backend/internal/users"
	pkgAuth "github.com/onix-commerce/onix-backend/pkg/auth"
	"github.com/onix-commerce/onix-backend/pkg/auth/session"
	"github.com/onix-commerce/onix-backend/pkg/config"
	"github.com/onix-commerce/onix-backend/pkg/db/dbtest"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/redis"
)

var (
	testJWT = config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "onix",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 120,
	}
	testPassword = config.PasswordConfig{
		MinLength:        6,
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

type harness struct {
	svc      Service
	repo     *users.Repository
	sessions *session.Manager
	clock    *time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client := dbtest.New(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })

	sessions, err := session.NewManager(rdb, testJWT)
	require.NoError(t, err)

	now := time.Now()
	h := &harness{repo: users.NewRepository(client.DB()), sessions: sessions, clock: &now}
	h.svc, err = NewService(ServiceParams{
		Users:          h.repo,
		Tx:             client,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: testPassword,
		Now:            func() time.Time { return *h.clock },
	})
	require.NoError(t, err)
	return h
}

func validRegistration() RegisterRequest {
	return RegisterRequest{Email: "Ana@Example.com", Password: "secreto1", FirstName: "Ana", LastName: "Ruiz"}
}

func countUsers(t *testing.T, h *harness) int {
	t.Helper()
	taken, err := h.repo.EmailTaken(context.Background(), "ana@example.com", uuid.Nil)
	require.NoError(t, err)
	if taken {
		return 1
	}
	return 0
}

func TestRegisterCreatesCustomerAndSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Role)
	assert.Equal(t, models.DefaultCountry, resp.User.Country)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	open, err := h.sessions.HasSession(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Email = " ANA@example.com "
	_, err = h.svc.Register(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, "email already registered", pkgerrors.PublicMessage(err))
	assert.Equal(t, 1, countUsers(t, h))
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
		msg    string
	}{
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, "password must be at least 6 characters"},
		{"bad email", func(r *RegisterRequest) { r.Email = "ana-at-example" }, "invalid email format"},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "  " }, "first_name is required"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "password is required"},
	}
	for _, tc := range cases {
		req := validRegistration()
		tc.mutate(&req)
		_, err := h.svc.Register(ctx, req)
		require.Error(t, err, tc.name)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), tc.name)
		assert.Equal(t, tc.msg, pkgerrors.PublicMessage(err), tc.name)
	}
	assert.Equal(t, 0, countUsers(t, h))
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = h.svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "invalid credentials", pkgerrors.PublicMessage(err))

	_, err = h.svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secreto1"})
	assert.Equal(t, "invalid credentials", pkgerrors.PublicMessage(err))

	_, err = h.svc.Login(ctx, LoginRequest{Email: "", Password: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, h.repo.Deactivate(ctx, reg.User.ID))
	_, err = h.svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secreto1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "account deactivated", pkgerrors.PublicMessage(err))
}

func TestLoginRecordsLastLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	resp, err := h.svc.Login(ctx, LoginRequest{Email: "ANA@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "login successful", resp.Message)
	require.NotNil(t, resp.User.LastLoginAt)

	stored, err := h.repo.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, claims.ID))
	open, err := h.sessions.HasSession(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestRefreshRotatesExpiredToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	*h.clock = h.clock.Add(2 * time.Hour)
	refreshed, err := h.svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	_, err = h.svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
