// Package storetest holds the behavioural contract shared by every ports.ClientStore backend.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/lexdesk/internal/ports"
)

// Run exercises store against the ClientStore contract. Each subtest uses a fresh client id,
// so a shared backend does not need to be emptied between subtests.
func Run(t *testing.T, store ports.ClientStore) {
	t.Helper()

	t.Run("get on unknown client returns empty map", func(t *testing.T) {
		got, err := store.Get(context.Background(), newClientID(), "auth_token", "user")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("set then get returns written keys only", func(t *testing.T) {
		ctx := context.Background()
		id := newClientID()
		require.NoError(t, store.Set(ctx, id, map[string]string{"auth_token": "tok", "user": `{"id":"1"}`}))

		got, err := store.Get(ctx, id, "auth_token", "user", "theme")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"auth_token": "tok", "user": `{"id":"1"}`}, got)
	})

	t.Run("set overwrites existing values", func(t *testing.T) {
		ctx := context.Background()
		id := newClientID()
		require.NoError(t, store.Set(ctx, id, map[string]string{"theme": "light"}))
		require.NoError(t, store.Set(ctx, id, map[string]string{"theme": "dark"}))

		got, err := store.Get(ctx, id, "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", got["theme"])
	})

	t.Run("delete removes only named keys", func(t *testing.T) {
		ctx := context.Background()
		id := newClientID()
		require.NoError(t, store.Set(ctx, id, map[string]string{"auth_token": "tok", "user": "u", "theme": "dark"}))
		require.NoError(t, store.Delete(ctx, id, "auth_token", "user"))

		got, err := store.Get(ctx, id, "auth_token", "user", "theme")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"theme": "dark"}, got)
	})

	t.Run("delete of absent keys is not an error", func(t *testing.T) {
		ctx := context.Background()
		id := newClientID()
		require.NoError(t, store.Delete(ctx, id, "auth_token", "user"))
		require.NoError(t, store.Delete(ctx, id, "auth_token", "user"))
	})

	t.Run("clients are isolated", func(t *testing.T) {
		ctx := context.Background()
		a, b := newClientID(), newClientID()
		require.NoError(t, store.Set(ctx, a, map[string]string{"theme": "dark"}))

		got, err := store.Get(ctx, b, "theme")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func newClientID() string {
	return uuid.NewString()
}
