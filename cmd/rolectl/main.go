// Command rolectl signs in to a role API and manages its role directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrEthical07/goRoles/cmd/rolectl/cmd"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
