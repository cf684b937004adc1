package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readAPIKey запрашивает API-ключ дашборда скрытым вводом.
func readAPIKey(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("backend.api_key is empty and stdin is not a terminal; set GATEWAY_API_KEY")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Dashboard API key: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}

	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", errors.New("empty api key")
	}
	return key, nil
}
