package main

import (
	"fmt"
	"os"

	"github.com/systmms/passlaunch/cmd/passlaunch/commands"
	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	secure.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	rt := commands.NewRuntime(nil)
	root := commands.NewRootCommand(rt, fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	return root.Execute()
}
