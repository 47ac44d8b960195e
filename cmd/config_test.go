package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/eyaml/internal/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.dir, "new", "config.toml")

	_, stderr, err := executeCommand(t, "", "config", "init", "--config", path,
		"--public-key", "~/keys/pub.pem", "-o", "yaml", "-l", "secret")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Config written to")

	config, err := configs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "~/keys/pub.pem", config.Keys.PublicKey)
	assert.Equal(t, configs.DefaultPrivateKeyPath, config.Keys.PrivateKey)
	assert.Equal(t, "yaml", config.Output.Format)
	assert.Equal(t, "secret", config.Output.Label)
}

func TestConfigInitKeepsExistingFile(t *testing.T) {
	env := setupTestEnv(t)

	_, stderr, err := executeCommand(t, "", "config", "init", "--public-key", "other.pem")
	require.NoError(t, err)
	assert.Contains(t, stderr, "already exists")
	assert.Contains(t, stderr, "--force")

	config, err := configs.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, env.publicKey, config.Keys.PublicKey)

	_, _, err = executeCommand(t, "", "config", "init", "--force", "--public-key", "other.pem")
	require.NoError(t, err)
	config, err = configs.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, "other.pem", config.Keys.PublicKey)
}

func TestConfigInitValidation(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.dir, "other.toml")

	_, _, err := executeCommand(t, "", "config", "init", "--config", path, "-o", "xml")
	assert.Error(t, err)

	_, _, err = executeCommand(t, "", "config", "init", "--config", path, "-l", "no spaces")
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestConfigShow(t *testing.T) {
	env := setupTestEnv(t)
	writeTestFile(t, env.config, "[keys]\npublic_key = \"/keys/pub.pem\"\n\n[extra]\nfoo = 1\n")

	stdout, stderr, err := executeCommand(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, `public_key = "/keys/pub.pem"`)
	assert.Contains(t, stdout, `private_key = "`+configs.DefaultPrivateKeyPath+`"`)
	assert.Contains(t, stdout, `format = "string"`)
	assert.True(t, strings.Contains(stderr, "extra"), "expected unknown key warning, got %q", stderr)
}
