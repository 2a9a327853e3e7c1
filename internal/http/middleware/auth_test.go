package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/service"
	"github.com/gestaozabele/sst/internal/session"
)

func fixedResolver(user *repo.User) Resolver {
	return func(context.Context, *session.Session) (service.SessionContext, error) {
		return service.SessionContext{User: user}, nil
	}
}

func newManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), auth.NewTokenSigner("segredo", time.Hour), false)
}

func TestRequireAuthenticatedRedirectsWithNext(t *testing.T) {
	called := false
	h := Session(newManager(), fixedResolver(nil))(RequireAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?aba=1", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard%3Faba%3D1", rec.Header().Get("Location"))
}

func TestRequireAdminDeniesRegularUser(t *testing.T) {
	mgr := newManager()
	called := false
	h := Session(mgr, fixedResolver(&repo.User{ID: 3, Role: repo.RoleUser}))(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guia", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	flashes := mgr.Load(req).PopFlashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, MsgAdminOnly, flashes[0].Message)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	h := Session(newManager(), fixedResolver(&repo.User{ID: 1, Role: repo.RoleAdmin}))(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, GetSessionContext(r.Context()).IsAdmin())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionSavesWhenHandlerWritesNothing(t *testing.T) {
	h := Session(newManager(), fixedResolver(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r.Context()).AddFlash(session.FlashInfo, "oi")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestSessionResolverFailure(t *testing.T) {
	h := Session(newManager(), func(context.Context, *session.Session) (service.SessionContext, error) {
		return service.SessionContext{}, errors.New("banco fora do ar")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria executar")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "banco fora do ar")
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/":                     "/",
		"/survey":               "/survey",
		"/ouvidoria?x=1":        "/ouvidoria?x=1",
		"//evil.example":        "/",
		`/\evil.example`:        "/",
		"https://evil.example/": "/",
		"survey":                "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeNext(in), in)
	}
}

func TestRecoverWritesGenericPage(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("segredo interno")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro interno")
	assert.NotContains(t, rec.Body.String(), "segredo interno")
}
