package main

import (
	"os"

	"github.com/tobiaswagner/gruppentool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
