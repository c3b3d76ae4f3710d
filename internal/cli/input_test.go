package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText_TrimsLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  alice  \n"))
	var out bytes.Buffer

	got, err := GetSimpleText(reader, "Username", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Contains(t, out.String(), "Username")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("alice"))
	var out bytes.Buffer

	got, err := GetSimpleText(reader, "Username", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestGetSimpleText_EOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer

	_, err := GetSimpleText(reader, "Username", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func() ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Contains(t, out.String(), "Password")
}

func TestGetSelection(t *testing.T) {
	var out bytes.Buffer

	n, ok, err := GetSelection(bufio.NewReader(strings.NewReader("2\n")), "Task number", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok, err = GetSelection(bufio.NewReader(strings.NewReader("two\n")), "Task number", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
