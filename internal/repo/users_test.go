package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/sst/internal/db/dbtest"
)

func TestUsersCreateAndFetch(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(dbtest.New(t))

	apelido := "Zé"
	created, err := users.Create(ctx, CreateUserParams{
		Name:          "José da Silva",
		PreferredName: &apelido,
		Email:         "  Jose.Silva@Empresa.com ",
		PasswordHash:  "hash",
		Role:          RoleUser,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "jose.silva@empresa.com", created.Email)
	assert.Equal(t, "Zé", created.DisplayName())

	byEmail, err := users.GetByEmail(ctx, "JOSE.SILVA@empresa.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)
}

func TestUsersDuplicateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	users := NewUsers(conn)

	_, err := users.Create(ctx, CreateUserParams{Name: "Ana", Email: "ana@empresa.com", PasswordHash: "h", Role: RoleUser})
	require.NoError(t, err)

	_, err = users.Create(ctx, CreateUserParams{Name: "Ana 2", Email: "ANA@empresa.com", PasswordHash: "h", Role: RoleUser})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, count)
}

func TestUsersNotFound(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(dbtest.New(t))

	_, err := users.GetByEmail(ctx, "ninguem@empresa.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = users.GetByID(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, users.SetRole(ctx, 99, RoleAdmin), ErrNotFound)
	require.ErrorIs(t, users.SetPassword(ctx, 99, "novo"), ErrNotFound)
}

func TestUsersSetRoleAndPassword(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(dbtest.New(t))

	u, err := users.Create(ctx, CreateUserParams{Name: "Bia", Email: "bia@empresa.com", PasswordHash: "antigo", Role: RoleUser})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin())

	require.NoError(t, users.SetRole(ctx, u.ID, RoleAdmin))
	require.NoError(t, users.SetPassword(ctx, u.ID, "novo"))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, "novo", got.PasswordHash)
	assert.Equal(t, "Bia", got.DisplayName())
}
