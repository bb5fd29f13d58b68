package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/macropower/gcm/internal/cli"
	"github.com/macropower/gcm/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	if err != nil {
		os.Exit(1)
	}
}
