package main

import (
	"fmt"
	"os"

	"github.com/guox18/jless/internal/app"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	a, err := app.New(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jless:", err)
		os.Exit(1)
	}
	if err := a.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "jless:", err)
		os.Exit(1)
	}
}
