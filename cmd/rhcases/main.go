package main

import (
	"os"

	"github.com/avigier/rhcases/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
