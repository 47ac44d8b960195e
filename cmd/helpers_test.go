package cmd

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PolarWolf314/eyaml/internal/configs"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

var (
	keyOnce sync.Once
	testRSA *rsa.PrivateKey
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate RSA key: %v", err)
		}
		testRSA = k
	})
	require.NotNil(t, testRSA)
	return testRSA
}

// testEnv holds the paths of a key pair and config file in a temp dir.
type testEnv struct {
	dir        string
	publicKey  string
	privateKey string
	config     string
}

// setupTestEnv writes a key pair and points EYAML_CONFIG at a config file
// naming it, so tests never read the user's real configuration.
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	key := testKey(t)
	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		publicKey:  filepath.Join(dir, "public_key.pkcs7.pem"),
		privateKey: filepath.Join(dir, "private_key.pkcs7.pem"),
		config:     filepath.Join(dir, "config.toml"),
	}

	require.NoError(t, os.WriteFile(env.publicKey, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	}), 0600))
	require.NoError(t, os.WriteFile(env.privateKey, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0600))

	config := configs.DefaultConfig()
	config.Keys.PublicKey = env.publicKey
	config.Keys.PrivateKey = env.privateKey
	require.NoError(t, configs.Save(env.config, config))

	t.Setenv(configs.ConfigEnv, env.config)
	t.Setenv(PassphraseEnv, "")
	return env
}

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	ResetGlobalState()
	t.Cleanup(ResetGlobalState)

	var stdout, stderr bytes.Buffer
	root := GetRootCmd()
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	var in io.Reader = strings.NewReader(stdin)
	root.SetIn(in)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetIn(nil)
	})

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
