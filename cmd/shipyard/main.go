package main

import (
	"context"
	"os"

	"github.com/monoship/monoship/internal/cli"
	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), cli.RootCmd); err != nil {
		os.Exit(1)
	}
}
