package commands

import (
	"io"
	"os"

	"github.com/notdatboi/Spark/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

type rootOptions struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds a fresh command tree. Log output goes to stderr.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	options := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sparkmem",
		Short: "Replay GPU memory allocation scenarios",
		Long: `sparkmem drives the Spark memory allocator against a simulated device.

Scenarios list memory types, heaps and a sequence of eager, lazy, resolve,
retain, release, flush and upload steps. The resulting block map is printed
as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(options.v, options.cfgFile)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}

			options.cfg = cfg
			options.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&options.cfgFile, "config", "", "config file (default is ./sparkmem.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	_ = options.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newReplayCommand(options))

	return rootCmd
}

// Execute runs the command tree against the process arguments
func Execute() error {
	return NewRootCommand(os.Stderr).Execute()
}
