package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-hq/helpdesk-service/internal/config"
	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
)

type fakeResetRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = token.Token
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	token := *stored
	return &token, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	stored.UsedAt = &now
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]time.Time)}
}

func (r *fakeRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = until
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeResetRepo, *fakeRevoker) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	revoker := newFakeRevoker()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Revoker:           revoker,
	})
	return svc, users, resets, revoker
}

func registerTestUser(t *testing.T, svc *AuthService, username string) *domain.User {
	t.Helper()
	user, _, err := svc.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		FirstName:       "Test",
		LastName:        "User",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterDefaultsRoleToUser(t *testing.T) {
	svc, users, _, _ := newAuthFixture()

	user, profile, err := svc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, profile.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	stored, err := users.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.test",
		Password:        "one",
		PasswordConfirm: "two",
	})
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerTestUser(t, svc, "jdoe")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "other@example.test",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	assert.Error(t, err)
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registered := registerTestUser(t, svc, "jdoe")

	user, token, expiresAt, err := svc.Login(context.Background(), "jdoe", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerTestUser(t, svc, "jdoe")

	_, _, _, err := svc.Login(context.Background(), "jdoe", "wrong")
	assert.Error(t, err)

	_, _, _, err = svc.Login(context.Background(), "nobody", "s3cret-pass")
	assert.Error(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, revoker := newAuthFixture()

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, svc.Logout(context.Background(), "jti-1", expiresAt))

	revoked, err := revoker.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	user := registerTestUser(t, svc, "jdoe")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, "wrong", "new-pass-123")
	assert.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret-pass", "new-pass-123"))

	_, _, _, err = svc.Login(ctx, "jdoe", "s3cret-pass")
	assert.Error(t, err)
	_, _, _, err = svc.Login(ctx, "jdoe", "new-pass-123")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerTestUser(t, svc, "jdoe")
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "jdoe@example.test")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "reset-pass-1"))

	_, _, _, err = svc.Login(ctx, "jdoe", "reset-pass-1")
	assert.NoError(t, err)

	// The token is single use.
	err = svc.ConfirmPasswordReset(ctx, token.Token, "reset-pass-2")
	assert.Error(t, err)
}

func TestPasswordResetUnknownToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	err := svc.ConfirmPasswordReset(context.Background(), "no-such-token", "whatever")
	assert.Error(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	user := registerTestUser(t, svc, "jdoe")
	ctx := context.Background()

	phone := "555-0101"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdateInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, "Test", updated.FirstName, "untouched fields survive")
}

func TestDeleteAccount(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	user := registerTestUser(t, svc, "jdoe")
	ctx := context.Background()

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))
	_, err := users.GetByID(ctx, user.ID)
	assert.Error(t, err)

	err = svc.DeleteAccount(ctx, user.ID)
	assert.Error(t, err)
}
