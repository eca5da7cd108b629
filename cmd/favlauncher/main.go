package main

import (
	"os"

	"github.com/MrSnakeDoc/favlauncher/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
