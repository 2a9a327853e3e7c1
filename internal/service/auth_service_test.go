package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/db/dbtest"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/util"
)

func newAuthService(t *testing.T) (*AuthService, *repo.Users) {
	t.Helper()
	users := repo.NewUsers(dbtest.New(t))
	return NewAuthService(users), users
}

func adminContext() SessionContext {
	return SessionContext{User: &repo.User{ID: 1, Name: "Admin", Role: repo.RoleAdmin}}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	user, err := svc.Register(ctx, SessionContext{}, RegisterInput{
		Name:          "  Carla Souza ",
		PreferredName: "Carlinha",
		Email:         "Carla@Empresa.COM",
		Password:      "senha-forte",
	})
	require.NoError(t, err)
	assert.Equal(t, "carla@empresa.com", user.Email)
	assert.Equal(t, "Carla Souza", user.Name)
	assert.Equal(t, "Carlinha", user.DisplayName())
	assert.Equal(t, repo.RoleUser, user.Role)
	assert.NotEqual(t, "senha-forte", user.PasswordHash)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := auth.Verify("senha-forte", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := map[string]RegisterInput{
		"sem nome":        {Email: "a@b.com", Password: "x"},
		"sem email":       {Name: "A", Password: "x"},
		"sem senha":       {Name: "A", Email: "a@b.com"},
		"email invalido":  {Name: "A", Email: "nao-e-email", Password: "x"},
		"nome só espaços": {Name: "   ", Email: "a@b.com", Password: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), SessionContext{}, in)
			require.Error(t, err)
			assert.True(t, util.IsValidation(err))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, SessionContext{}, RegisterInput{Name: "A", Email: "dup@empresa.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, SessionContext{}, RegisterInput{Name: "B", Email: "DUP@empresa.com", Password: "y"})
	require.ErrorIs(t, err, repo.ErrDuplicateEmail)
}

func TestRegisterRoleElevation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	anon, err := svc.Register(ctx, SessionContext{}, RegisterInput{Name: "A", Email: "a@empresa.com", Password: "x", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, repo.RoleUser, anon.Role)

	regular := SessionContext{User: &repo.User{ID: 2, Role: repo.RoleUser}}
	byUser, err := svc.Register(ctx, regular, RegisterInput{Name: "B", Email: "b@empresa.com", Password: "x", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, repo.RoleUser, byUser.Role)

	byAdmin, err := svc.Register(ctx, adminContext(), RegisterInput{Name: "C", Email: "c@empresa.com", Password: "x", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, repo.RoleAdmin, byAdmin.Role)

	_, err = svc.Register(ctx, adminContext(), RegisterInput{Name: "D", Email: "d@empresa.com", Password: "x", Role: "root"})
	assert.True(t, util.IsValidation(err))
}

func TestLoginSuccessRenewsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	created, err := svc.Register(ctx, SessionContext{}, RegisterInput{Name: "A", Email: "login@empresa.com", Password: "certa"})
	require.NoError(t, err)

	sess := &session.Session{}
	sess.AddFlash(session.FlashInfo, "antiga")

	user, err := svc.Login(ctx, sess, " LOGIN@empresa.com", "certa")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.ID, sess.UserID())
	assert.Equal(t, repo.RoleUser, sess.Role())
	assert.Nil(t, sess.PopFlashes())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, SessionContext{}, RegisterInput{Name: "A", Email: "existe@empresa.com", Password: "certa"})
	require.NoError(t, err)

	sess := &session.Session{}
	_, wrongPassword := svc.Login(ctx, sess, "existe@empresa.com", "errada")
	_, unknownEmail := svc.Login(ctx, sess, "naoexiste@empresa.com", "errada")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Zero(t, sess.UserID())
	assert.False(t, sess.Modified())
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newAuthService(t)

	sess := &session.Session{}
	svc.Logout(sess)
	assert.Zero(t, sess.UserID())

	sess.SetUser(5, repo.RoleAdmin)
	svc.Logout(sess)
	svc.Logout(sess)
	assert.Zero(t, sess.UserID())
	assert.Empty(t, sess.Role())
}

func TestCurrentUserRefetchesRole(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t)

	created, err := svc.Register(ctx, SessionContext{}, RegisterInput{Name: "A", Email: "role@empresa.com", Password: "x"})
	require.NoError(t, err)

	sess := &session.Session{}
	sess.SetUser(created.ID, created.Role)

	sc, err := svc.Context(ctx, sess)
	require.NoError(t, err)
	assert.False(t, sc.IsAdmin())

	require.NoError(t, users.SetRole(ctx, created.ID, repo.RoleAdmin))

	sc, err = svc.Context(ctx, sess)
	require.NoError(t, err)
	assert.True(t, sc.IsAdmin())

	anon, err := svc.CurrentUser(ctx, &session.Session{})
	require.NoError(t, err)
	assert.Nil(t, anon)

	ghost := &session.Session{}
	ghost.SetUser(999, repo.RoleAdmin)
	gone, err := svc.CurrentUser(ctx, ghost)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionContextGuards(t *testing.T) {
	_, err := SessionContext{}.RequireAuthenticated()
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = SessionContext{}.RequireAdmin()
	require.ErrorIs(t, err, ErrUnauthenticated)

	user := SessionContext{User: &repo.User{ID: 2, Role: repo.RoleUser}}
	got, err := user.RequireAuthenticated()
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)

	_, err = user.RequireAdmin()
	require.ErrorIs(t, err, ErrForbidden)

	_, err = adminContext().RequireAdmin()
	require.NoError(t, err)
}
