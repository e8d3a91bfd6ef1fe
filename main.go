package main

import (
	"os"

	"github.com/zeroprod/newsletter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
