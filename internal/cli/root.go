// Package cli provides the command-line interface for the tracker.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"maglev-tracker/internal/config"
	"maglev-tracker/internal/version"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// rootCmd runs the tracker when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "maglev-tracker",
	Short: "Track a coloured object and stream its height to a levitation controller",
	Long: `maglev-tracker follows a coloured object in a camera feed and writes its
vertical position to a serial port, one 4-byte big-endian float per frame.

Click "Select Object" and then the object in the video to start tracking.
Without --port, positions are logged instead of sent.`,
	Version:      version.Short(),
	SilenceUsage: true,
	RunE:         runTracker,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.PersistentFlags().String("prefs", config.DefaultPrefsPath(), "preferences file")
	rootCmd.PersistentFlags().String("env-file", ".env", "environment file loaded before MAGLEV_* variables")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(portsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

// newLogger returns the root logger, tagged with a fresh run id.
func newLogger(level string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "maglev",
		Level:  hclog.LevelFromString(strings.ToLower(level)),
		Output: out,
	}).With("run", uuid.NewString())
}
