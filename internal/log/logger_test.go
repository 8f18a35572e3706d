package log

import (
	"bytes"
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	return string(data)
}

func TestLogger_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	var console, errOut bytes.Buffer
	l.console = &console
	l.errOut = &errOut

	l.Printf("loaded %d topics\n", 12)
	l.Errorf("store unreachable: %s", "timeout")
	l.Warnw("remote call failed", "op", "questions.create", "user_id", "u1")
	require.NoError(t, l.Close())

	assert.Equal(t, "loaded 12 topics\n", console.String())
	assert.Equal(t, "store unreachable: timeout\n", errOut.String())

	contents := readLog(t, dir)
	assert.Contains(t, contents, `"msg":"loaded 12 topics"`)
	assert.Contains(t, contents, `"level":"error"`)
	assert.Contains(t, contents, `"op":"questions.create"`)
	assert.Contains(t, contents, `"user_id":"u1"`)
}

func TestLogger_Detach(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	var console bytes.Buffer
	l.console = &console
	l.Detach()
	l.Println("hidden from the terminal")
	require.NoError(t, l.Close())

	assert.Empty(t, console.String())
	assert.Contains(t, readLog(t, dir), "hidden from the terminal")
}

func TestInit_RedirectsStdLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	stdlog.Print("stray message")
	Infow("session restored", "user_id", "u2")
	require.NoError(t, Close())

	contents := readLog(t, dir)
	assert.Contains(t, contents, "stray message")
	assert.Contains(t, contents, `"user_id":"u2"`)
}

func TestGlobal_NoopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Infow("ignored")
		Warnw("ignored")
		Detach()
	})
	assert.NoError(t, Close())
}
