package tests

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/cli"
)

var (
	keyOnce sync.Once
	keyPEM  []byte
	pubPEM  []byte
)

func testKey(t *testing.T) ([]byte, []byte) {
	t.Helper()
	keyOnce.Do(func() {
		var err error
		keyPEM, pubPEM, err = assertion.GenerateKeyPair(2048)
		if err != nil {
			panic(err)
		}
	})
	return keyPEM, pubPEM
}

// writeConfig пишет dashboard.yaml, указывающий на baseURL, и возвращает путь к нему.
func writeConfig(t *testing.T, baseURL, apiKey string) string {
	t.Helper()

	priv, _ := testKey(t)
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "assertion_private.pem")
	if err := os.WriteFile(keyPath, priv, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	yml := strings.Join([]string{
		"backend:",
		"  base_url: " + baseURL,
		`  api_key: "` + apiKey + `"`,
		"  timeout: 5s",
		"assertion:",
		"  private_key_file: " + keyPath,
	}, "\n")
	path := filepath.Join(dir, "dashboard.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// run выполняет root-команду с аргументами и возвращает stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := cli.NewRootCmd("1.0.0", "2026-01-16")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

// withDeps восстанавливает подменённые зависимости после теста.
func withDeps(t *testing.T) {
	t.Helper()

	origLoad := cli.LoadConfig
	origNew := cli.NewGatewayClient
	origGen := cli.GenerateKeyPair
	origRead := cli.ReadAPIKey

	t.Cleanup(func() {
		cli.LoadConfig = origLoad
		cli.NewGatewayClient = origNew
		cli.GenerateKeyPair = origGen
		cli.ReadAPIKey = origRead
	})

	cli.ReadAPIKey = func(*cobra.Command) (string, error) {
		t.Fatalf("api key prompt must not be used in this test")
		return "", nil
	}
}
