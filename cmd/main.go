package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/issuetree/internal/cmd"
	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/version"
)

func main() {
	// Load settings from $ISSUETREE_HOME/settings.{yaml,json}
	// AfterApply layers them under flags and environment variables
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		settings = &config.Settings{}
	}

	var cli cmd.CLI
	cli.SetSettings(settings)

	ctx := kong.Parse(&cli,
		kong.Name("issuetree"),
		kong.Description(version.Tagline),
		kong.UsageOnError(),
		kong.Vars{
			"version": version.Info(),
		},
		kong.Bind(&cli),
	)

	// Execute the selected command
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
