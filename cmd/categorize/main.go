package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env before cobra reads any flag defaults
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
