package main

import (
	"fmt"
	"os"

	"mailnet/internal/api"
	"mailnet/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserMessage(err))
		os.Exit(1)
	}
}
