// Package main содержит точку входа CLI оператора дашборда.
//
// Пакет загружает .env (если он есть) и передаёт информацию о версии и дате сборки в CLI-слой.
package main

import (
	"github.com/joho/godotenv"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/cli"
)

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	// По умолчанию используется значение "dev".
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	// По умолчанию используется значение "unknown".
	buildDate = "unknown"
)

func main() {
	// .env необязателен
	_ = godotenv.Load()
	cli.Execute(buildVersion, buildDate)
}
