package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# node credentials
ANALYZER_TEST_URL="https://node.example.com/v2/key=abc"
export ANALYZER_TEST_LANG='zh'

`), 0o600))

	t.Setenv("ANALYZER_TEST_URL", "")
	t.Setenv("ANALYZER_TEST_LANG", "")

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ANALYZER_TEST_URL", "ANALYZER_TEST_LANG"}, set)
	assert.Equal(t, "https://node.example.com/v2/key=abc", os.Getenv("ANALYZER_TEST_URL"))
	assert.Equal(t, "zh", os.Getenv("ANALYZER_TEST_LANG"))
}

func TestLoadOverridesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANALYZER_TEST_URL=http://from-file:8545\n"), 0o600))

	t.Setenv("ANALYZER_TEST_URL", "http://from-shell:8545")

	_, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8545", os.Getenv("ANALYZER_TEST_URL"))
}

func TestLoadMissingFile(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
	assert.Empty(t, set)
}

func TestLoadMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JUSTAKEY\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, ":1: expected KEY=VALUE")
}
