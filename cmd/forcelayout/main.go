// Command forcelayout runs force-directed 3D graph layouts from the shell or
// serves a live layout over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/internal/cli"
	ferrors "github.com/matzehuels/forcelayout/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode separates bad input from everything else.
func exitCode(err error) int {
	switch ferrors.GetCode(err) {
	case ferrors.ErrCodeInvalidArgument, ferrors.ErrCodeInvalidConfig,
		ferrors.ErrCodeInvalidFormat, ferrors.ErrCodeFileNotFound, ferrors.ErrCodeUnsupported:
		return 2
	default:
		return 1
	}
}
