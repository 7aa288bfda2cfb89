package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and GitCommit are set at build-time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "odoo-xmlrpc\nVersion: %s\nGit commit: %s\n", Version, GitCommit)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}

func newServerVersionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "server-version",
		Short: "Print the version information reported by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, g, func(ctx context.Context, c modelClient) error {
				info, err := c.Version(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
}
