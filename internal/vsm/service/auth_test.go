package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *miniredis.Miniredis, *repository.Repositories) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewAuthService(db, repos, rdb, testutil.TestConfig()), mr, repos
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, repos := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Email: "ana@example.com", Password: "pa55word", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.NotEqual(t, "pa55word", user.PasswordHash)

	cust, err := repos.Customer.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", cust.FullName)

	_, err = svc.Register(ctx, &RegisterRequest{Email: "ANA@example.com", Password: "pa55word", FullName: "Dup"})
	require.ErrorIs(t, err, ErrConflict)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	requireKind(t, err, ErrUnauthorized, "Invalid email or password")

	got, pair, err := svc.Login(ctx, "ana@example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
}

func TestLoginDeactivated(t *testing.T) {
	svc, _, repos := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, &RegisterRequest{Email: "bo@example.com", Password: "pa55word", FullName: "Bo"})
	require.NoError(t, err)
	require.NoError(t, repos.User.SetActive(ctx, user.ID, false))

	_, _, err = svc.Login(ctx, "bo@example.com", "pa55word")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	svc, mr, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, &RegisterRequest{Email: "cy@example.com", Password: "pa55word", FullName: "Cy"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "cy@example.com", "pa55word")
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	next, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	// an access token is not a refresh token
	_, err = svc.RefreshToken(ctx, next.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.RefreshToken(ctx, next.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, mr.Keys())
}

func TestChangePasswordAndProfile(t *testing.T) {
	svc, _, repos := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, &RegisterRequest{Email: "di@example.com", Password: "pa55word", FullName: "Di"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "nope", "newpass1")
	requireKind(t, err, ErrUnprocessable, "Current password is incorrect")
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "pa55word", "newpass1"))
	_, _, err = svc.Login(ctx, "di@example.com", "newpass1")
	require.NoError(t, err)

	phone := "+91 98450 00000"
	name := "Diana"
	updated, err := svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Diana", updated.FullName)
	cust, err := repos.Customer.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, phone, cust.Phone)
}
