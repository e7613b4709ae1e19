package main

import (
	"context"
	"os"

	"github.com/hoistlabs/bricksmith/internal/cli"
	cmdutil "github.com/hoistlabs/bricksmith/internal/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// a .env beside the checkout may carry AZURE_* credentials
	godotenv.Load()

	app := cli.New()
	if err := app.Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		cmdutil.PrintError(err)
		if app.Debug() {
			cmdutil.PrintErrorDetail(err)
		}
		os.Exit(1)
	}
}
