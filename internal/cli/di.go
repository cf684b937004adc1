package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/config"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/gateway"
)

// для тестов
var (
	LoadConfig       = config.Load
	NewGatewayClient = gateway.NewClient
	GenerateKeyPair  = assertion.GenerateKeyPair
	ReadAPIKey       = func(cmd *cobra.Command) (string, error) {
		return readAPIKey(cmd)
	}
)
