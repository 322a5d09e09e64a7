package main

import (
	"fmt"
	"os"

	"github.com/danmuck/wirehdr/cmd/wirehdr/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wirehdr: %v\n", err)
		os.Exit(1)
	}
}
