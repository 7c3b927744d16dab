package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/database"
)

func TestValidateSignup(t *testing.T) {
	require.NoError(t, ValidateSignup("alice_1", "longenough"))
	require.Error(t, ValidateSignup("al", "longenough"))
	require.Error(t, ValidateSignup("alice!", "longenough"))
	require.Error(t, ValidateSignup("alice", "short"))
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.True(t, CheckPassword(h, "correct horse"))
	require.False(t, CheckPassword(h, "battery staple"))
}

func TestIssuer(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	tok, exp, err := iss.Sign("u1", "alice")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	c, err := iss.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", c.ID)
	require.Equal(t, "alice", c.Username)

	_, err = NewIssuer("other", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenMigrated(database.Memory)
	require.NoError(t, err)
	defer db.Close()
	users := NewUsers(db)

	u, err := users.Create(ctx, " alice ", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = users.Create(ctx, "ALICE", "password123")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = users.Authenticate(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = users.Authenticate(ctx, "nobody", "password123")
	require.ErrorIs(t, err, ErrBadCredentials)

	got, err := users.Authenticate(ctx, "Alice", "password123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, users.RecordResult(ctx, u.ID, true))
	require.NoError(t, users.RecordResult(ctx, u.ID, true))
	require.NoError(t, users.RecordResult(ctx, u.ID, false))
	got, err = users.ByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.GamesPlayed)
	require.Equal(t, 2, got.Wins)
	require.Equal(t, 0, got.Streak)

	require.ErrorIs(t, users.RecordResult(ctx, "missing", true), ErrNoUser)
}
