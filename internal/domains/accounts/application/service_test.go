package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/adapters/memory"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
)

const (
	testSecret   = "unit-test-signing-secret"
	testPassword = "correct horse battery"
)

func newAccountsFixture(t *testing.T) (*Service, *domain.User) {
	t.Helper()
	svc := NewService(memory.NewRepository(), []byte(testSecret), time.Hour)
	user, err := svc.Register(context.Background(), "Ops.Admin", "ops@metalsdesk.test", testPassword, domain.RoleOperator)
	require.NoError(t, err)
	return svc, user
}

func TestService_Register(t *testing.T) {
	_, user := newAccountsFixture(t)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ops.admin", user.Username)
	assert.NotEqual(t, testPassword, user.PasswordHash)
}

func TestService_Register_RejectsShortPassword(t *testing.T) {
	svc := NewService(memory.NewRepository(), []byte(testSecret), time.Hour)
	_, err := svc.Register(context.Background(), "ops", "ops@metalsdesk.test", "short", domain.RoleAdmin)
	assert.Error(t, err)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	svc, _ := newAccountsFixture(t)
	_, err := svc.Register(context.Background(), "OPS.ADMIN", "other@metalsdesk.test", testPassword, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestService_LoginAndVerify(t *testing.T) {
	svc, user := newAccountsFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "ops.admin", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	id, err := svc.VerifyToken(ctx, pair.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Username, id.Username)
	assert.Equal(t, domain.RoleOperator, id.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAccountsFixture(t)
	_, err := svc.Login(context.Background(), "ops.admin", "wrong password!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	svc, _ := newAccountsFixture(t)
	_, err := svc.Login(context.Background(), "nobody", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_VerifyToken_Expired(t *testing.T) {
	repo := memory.NewRepository()
	issued := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, []byte(testSecret), time.Hour).WithClock(func() time.Time { return issued })
	ctx := context.Background()

	_, err := svc.Register(ctx, "ops", "ops@metalsdesk.test", testPassword, domain.RoleAdmin)
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ops", testPassword)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = svc.VerifyToken(ctx, pair.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyToken_WrongSecret(t *testing.T) {
	svc, _ := newAccountsFixture(t)
	pair, err := svc.Login(context.Background(), "ops.admin", testPassword)
	require.NoError(t, err)

	other := NewService(memory.NewRepository(), []byte("a different secret"), time.Hour)
	_, err = other.VerifyToken(context.Background(), pair.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyToken_Garbage(t *testing.T) {
	svc, _ := newAccountsFixture(t)
	_, err := svc.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
