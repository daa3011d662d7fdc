package phonetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"", "metaphone", "double-metaphone", "METAPHONE"} {
		enc, err := New(name)
		require.NoError(t, err, name)
		assert.Equal(t, Metaphone, enc.Name())
	}

	enc, err := New("soundex")
	require.NoError(t, err)
	assert.Equal(t, Soundex, enc.Name())

	enc, err = New("off")
	require.NoError(t, err)
	assert.Equal(t, None, enc.Name())

	_, err = New("caverphone")
	assert.Error(t, err)
}

func TestMetaphoneSoundAlikes(t *testing.T) {
	enc, err := New(Metaphone)
	require.NoError(t, err)

	assert.True(t, Share(enc, "fonetik", "phonetic"))
	assert.True(t, Share(enc, "Fonetik", "phonetic"), "keys ignore case")
	assert.True(t, Share(enc, "nite", "night"))
	assert.False(t, Share(enc, "tree", "winter"))
	assert.NotEmpty(t, enc.Keys("flower"))
}

func TestSoundex(t *testing.T) {
	enc, err := New(Soundex)
	require.NoError(t, err)

	assert.Equal(t, []string{"R163"}, enc.Keys("Robert"))
	assert.True(t, Share(enc, "Robert", "Rupert"))
	assert.False(t, Share(enc, "Robert", "tree"))
}

func TestNone(t *testing.T) {
	enc, err := New(None)
	require.NoError(t, err)

	assert.Nil(t, enc.Keys("phonetic"))
	assert.False(t, Share(enc, "phonetic", "phonetic"))
}
