package client

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func Test_FileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.Token)

	require.NoError(t, store.Save(Snapshot{Token: "t0k", User: &User{ID: "u1", Role: "seeker"}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	session, err := NewSession(store)
	require.NoError(t, err)
	assert.Equal(t, "t0k", session.Token())
	assert.Equal(t, "u1", session.User().ID)
}

func Test_FileStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewSession(NewFileStore(path))

	assert.Error(t, err)
}

func Test_Session_UserIsACopy(t *testing.T) {
	session, err := NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, session.set(Snapshot{Token: "t", User: &User{ID: "u1"}}))

	session.User().ID = "changed"

	assert.Equal(t, "u1", session.User().ID)
}
