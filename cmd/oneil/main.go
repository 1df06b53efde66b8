package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/careweather/oneil/cmd/oneil/commands"
)

func main() {
	// a .env next to the invocation can set ONEIL_* variables
	godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
