package memstore_test

import (
	"testing"

	"github.com/jrsteele09/notoli/sessions"
	"github.com/jrsteele09/notoli/sessions/memstore"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	storage := memstore.New()
	store := sessions.NewStore(storage)

	require.NoError(t, store.Persist(sessions.Credentials{Access: "a", Refresh: "r", Username: "u"}))
	require.Equal(t, 3, storage.Len())

	store.Clear()
	require.Equal(t, 0, storage.Len())
	require.NoError(t, storage.RemoveItem("missing"))
}
