package main

import (
	"os"

	"github.com/lifesim/lifebank/cmd/lifebank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
