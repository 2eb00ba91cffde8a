// Command gdlookup queries an installed copy of Grim Dawn's game database.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/roach88/gdlookup/internal/cli"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.NewRootCommand(),
		fang.WithVersion(cli.VersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
