package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_Session(t *testing.T) {
	srv := newFakeServer(t)
	script := `whoami
login a@b.com wrong
login a@b.com pw
add Line2 1 2 10 green
lines
delete 1
delete 1
stats
bogus
exit
`
	out, err := run(t, srv.URL, script, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "* login failed")
	assert.Contains(t, out, "error: invalid email or password")
	assert.Contains(t, out, "logged in as a@b.com")
	assert.Contains(t, out, "* line added")
	assert.Contains(t, out, "Line2")
	assert.Contains(t, out, "* line deleted")
	assert.Contains(t, out, "* failed to delete line")
	assert.Contains(t, out, "lines.create success 1")
	assert.Contains(t, out, "lines.remove error 1")
	assert.Contains(t, out, "session.login error 1")
	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "Bye")
}

func TestShell_ResumesFromToken(t *testing.T) {
	srv := newFakeServer(t)

	out, err := run(t, srv.URL, "whoami\n", "--token", testToken, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as a@b.com")
}

func TestParseAdd(t *testing.T) {
	req, err := parseAdd([]string{"L", "1", "2", "5"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), req.DownStationID)
	assert.Equal(t, "", req.Color)

	_, err = parseAdd([]string{"L", "x", "2", "5"})
	assert.Error(t, err)
	_, err = parseAdd([]string{"L"})
	assert.Error(t, err)
}
