package main

import (
	"os"

	"Gin_postgres_redis_key_loans/cli"
	"Gin_postgres_redis_key_loans/config"
)

func main() {
	config.LoadEnv()
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
