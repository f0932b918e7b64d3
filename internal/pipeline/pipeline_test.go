package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("update")
	assert.True(t, ok)
	assert.Equal(t, CommandUpdate, cmd)
	assert.Equal(t, "update", cmd.String())

	cmd, ok = ParseCommand("compile")
	assert.True(t, ok)
	assert.Equal(t, CommandCompile, cmd)
	assert.Equal(t, "compile", cmd.String())

	_, ok = ParseCommand("deploy")
	assert.False(t, ok)
	_, ok = ParseCommand("")
	assert.False(t, ok)
}

func TestRun_InvalidSourceTree(t *testing.T) {
	installMockTools(t)
	root := t.TempDir() // no data/ subtree
	p := testPipeline(t, root)

	err := p.Run(context.Background(), CommandUpdate)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrInvalidSourceTree))
	assert.Equal(t, 2, ExitCode(err))

	// The precondition fires before any stage: nothing was written.
	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

// TestRun_UpdateThenCompile walks the full workflow: extraction and update
// produce the template and per-locale catalogs, a translator fills in one
// entry, and compilation bakes it into the binary catalog.
func TestRun_UpdateThenCompile(t *testing.T) {
	installMockTools(t)
	root := writeSourceTree(t)
	p := testPipeline(t, root)
	ctx := context.Background()

	require.NoError(t, p.Run(ctx, CommandUpdate))

	pot, err := os.ReadFile(filepath.Join(root, "locale", "deskscan.pot"))
	require.NoError(t, err)
	assert.Contains(t, string(pot), `msgid "Hello"`)
	assert.Contains(t, string(pot), `msgid "World"`)

	frPo := filepath.Join(root, "locale", "fr.po")
	po, err := os.ReadFile(frPo)
	require.NoError(t, err)
	assert.Contains(t, string(po), `msgid "Hello"`)
	assert.Contains(t, string(po), `msgid "World"`)

	// Translator work happens between runs: fill in "Hello".
	translated := strings.Replace(string(po),
		"msgid \"Hello\"\nmsgstr \"\"",
		"msgid \"Hello\"\nmsgstr \"Bonjour\"", 1)
	require.NoError(t, os.WriteFile(frPo, []byte(translated), 0o644))

	require.NoError(t, p.Run(ctx, CommandCompile))

	mo, err := os.ReadFile(filepath.Join(
		root, "data", "locale", "fr", "LC_MESSAGES", "deskscan.mo"))
	require.NoError(t, err)
	assert.Contains(t, string(mo), "Bonjour")
	// "World" stays untranslated in the compiled form; the pipeline never
	// drops it.
	assert.Contains(t, string(mo), `msgid "World"`)
}

func TestRun_UpdateTwiceIsStable(t *testing.T) {
	installMockTools(t)
	root := writeSourceTree(t)
	p := testPipeline(t, root)
	ctx := context.Background()

	require.NoError(t, p.Run(ctx, CommandUpdate))
	firstPot, err := os.ReadFile(filepath.Join(root, "locale", "deskscan.pot"))
	require.NoError(t, err)
	firstPo, err := os.ReadFile(filepath.Join(root, "locale", "fr.po"))
	require.NoError(t, err)

	require.NoError(t, p.Run(ctx, CommandUpdate))
	secondPot, err := os.ReadFile(filepath.Join(root, "locale", "deskscan.pot"))
	require.NoError(t, err)
	secondPo, err := os.ReadFile(filepath.Join(root, "locale", "fr.po"))
	require.NoError(t, err)

	assert.Equal(t, string(firstPot), string(secondPot))
	assert.Equal(t, string(firstPo), string(secondPo))
}
