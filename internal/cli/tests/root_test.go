package tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/cli"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := cli.NewRootCmd("1.0.0", "2026-01-16")

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, w := range []string{"projects", "token", "keygen", "version"} {
		if !names[w] {
			t.Fatalf("expected subcommand %q to exist", w)
		}
	}
}

// version не требует конфига
func TestRoot_Version_WithoutConfig(t *testing.T) {
	out, err := run(t, "--config", "/nonexistent/dashboard.yaml", "version")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "version=1.0.0") || !strings.Contains(out, "build_date=2026-01-16") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewVersionCmd_PrintsVersionAndBuildDate(t *testing.T) {
	cmd := cli.NewVersionCmd("1.2.3", "2026-01-16")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "version=1.2.3") {
		t.Fatalf("expected version output, got %q", got)
	}
	if !strings.Contains(got, "build_date=2026-01-16") {
		t.Fatalf("expected build_date output, got %q", got)
	}
}

func TestRoot_MissingConfig_Error(t *testing.T) {
	withDeps(t)

	_, err := run(t, "--config", "/nonexistent/dashboard.yaml", "projects", "list", "--subject", "github:42", "--handle", "alice")
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
}
