package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build targets, or every target when none are named",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			production, _ := cmd.Flags().GetBool("production")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			logFormat, _ := cmd.Flags().GetString("log-format")
			dir, _ := cmd.Flags().GetString("dir")

			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				Watch:       watch,
				Production:  production,
				NoCache:     noCache,
				MetricsAddr: metricsAddr,
				LogFormat:   logFormat,
				Dir:         dir,
			})
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Rebuild affected targets when their sources change")
	cmd.Flags().BoolP("production", "p", false, "Build without development annotations and set KILN_ENV=production")
	cmd.Flags().BoolP("no-cache", "n", false, "Clear the module cache before building")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while watching")
	cmd.Flags().StringP("log-format", "o", "auto", "Log format: auto, pretty, or json")
	cmd.Flags().StringP("dir", "C", ".", "Directory to search for kiln.yaml from")
	return cmd
}
