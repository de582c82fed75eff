package main

import (
	"os"

	"github.com/cogfs/cogfs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
