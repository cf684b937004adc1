package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
)

const (
	PrivateKeyFile = "assertion_private.pem"
	PublicKeyFile  = "assertion_public.pem"
)

// NewKeygenCmd создаёт команду генерации пары ключей для подписи утверждений.
//
// Приватный ключ (PKCS#8) пишется с правами 0600 и используется дашбордом,
// публичный (PKIX) передаётся на сторону, которая проверяет утверждения.
// Существующие файлы не перезаписываются без --force.
func NewKeygenCmd() *cobra.Command {
	var (
		out   string
		bits  int
		force bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Сгенерировать пару RSA-ключей для подписи утверждений",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			privPath := filepath.Join(out, PrivateKeyFile)
			pubPath := filepath.Join(out, PublicKeyFile)
			if !force {
				for _, p := range []string{privPath, pubPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", p)
					}
				}
			}

			privPEM, pubPEM, err := GenerateKeyPair(bits)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o700); err != nil {
				return fmt.Errorf("create key dir: %w", err)
			}
			if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
				return fmt.Errorf("write public key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\npublic key:  %s\n", privPath, pubPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	cmd.Flags().IntVar(&bits, "bits", assertion.MinKeyBits, "RSA key size")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
