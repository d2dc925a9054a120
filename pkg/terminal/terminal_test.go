package terminal_test

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/terminal"
)

func TestPollRead(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()

	term, err := terminal.FromReader(pr)
	require.NoError(t, err)

	ok, err := term.Poll(0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = term.Read()
	require.ErrorIs(t, err, terminal.ErrNoKey)

	go func() {
		_, _ = pw.Write([]byte("rq")) //nolint:errcheck // Test writer.
	}()

	ok, err = term.Poll(time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	key, err := term.Read()
	require.NoError(t, err)
	assert.Equal(t, "r", key)

	// Queued keys are available without waiting.
	ok, err = term.Poll(0)
	require.NoError(t, err)
	require.True(t, ok)

	key, err = term.Read()
	require.NoError(t, err)
	assert.Equal(t, "q", key)
}

func TestPollTimeout(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()

	term, err := terminal.FromReader(pr)
	require.NoError(t, err)

	start := time.Now()
	ok, err := term.Poll(20 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPollEOF(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()

	term, err := terminal.FromReader(pr)
	require.NoError(t, err)

	require.NoError(t, pw.Close())

	_, err = term.Poll(time.Second)
	require.ErrorIs(t, err, io.EOF)

	var terr *terminal.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "read", terr.Op)
}

func TestClose(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()

	term, err := terminal.FromReader(pr)
	require.NoError(t, err)

	require.NoError(t, term.Close())
	require.NoError(t, pw.Close())

	_, err = term.Poll(0)
	require.ErrorIs(t, err, terminal.ErrClosed)

	// No mode change was made, so nothing was restored.
	assert.Equal(t, 0, term.Restores())

	w, h := term.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
}
