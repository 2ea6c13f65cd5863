package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	sess := domainauth.Session{ID: "s1", UserID: 7, UserType: "admin", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_Validation(t *testing.T) {
	store := NewMemorySessionStore(domainauth.Session{ID: "seeded"})
	require.Error(t, store.Save(context.Background(), domainauth.Session{}))

	_, err := store.Get(context.Background(), "")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	_, err = store.Get(context.Background(), "seeded")
	require.NoError(t, err)
}

func TestStaticVerifier(t *testing.T) {
	v := &StaticVerifier{Tokens: map[string]domainauth.Identity{"good": {Subject: "sub", Email: "a@example.com"}}}

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", id.Email)

	_, err = v.Verify(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 2, v.Calls)
}
