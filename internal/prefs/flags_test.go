package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerFlags_InMemory(t *testing.T) {
	f, err := OpenBadger("")
	require.NoError(t, err)
	defer f.Close()

	shown, err := f.Get(DisclaimerShown)
	require.NoError(t, err)
	assert.False(t, shown, "unset flags read as false")

	require.NoError(t, f.Set(DisclaimerShown, true))
	shown, err = f.Get(DisclaimerShown)
	require.NoError(t, err)
	assert.True(t, shown)

	require.NoError(t, f.Set(DisclaimerShown, false))
	shown, err = f.Get(DisclaimerShown)
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestBadgerFlags_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	f, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(DisclaimerShown, true))
	require.NoError(t, f.Close())

	f, err = OpenBadger(dir)
	require.NoError(t, err)
	defer f.Close()

	shown, err := f.Get(DisclaimerShown)
	require.NoError(t, err)
	assert.True(t, shown)
}
