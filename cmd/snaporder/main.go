package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// API keys commonly live in a .env next to the binary; absence is fine
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
