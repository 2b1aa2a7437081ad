package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/weihung-tw/billingen/internal/cli"
)

var version = "1.1.0"

func main() {
	_ = godotenv.Load()

	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
