package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zhouyilab/hexquiz/internal/cli"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		// Optional; running without an .env file is the normal case.
		_ = godotenv.Load()
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
