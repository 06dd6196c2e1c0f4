package main

import (
	"os"

	"llm-stack-deploy/internal/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
