package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/notdatboi/Spark/internal/scenario"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

func newReplayCommand(options *rootOptions) *cobra.Command {
	var human bool

	cmd := &cobra.Command{
		Use:   "replay [scenario.yaml]",
		Short: "Replay a scenario and print the resulting memory map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := options.cfg.Scenario
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no scenario given and none is configured")
			}

			loaded, err := scenario.Load(path)
			if err != nil {
				return err
			}

			runner, err := scenario.NewRunner(options.logger, loaded, options.cfg.WaitTimeout)
			if err != nil {
				return err
			}

			err = runner.Run(loaded.Steps)
			if err != nil {
				return errors.CombineErrors(err, runner.Close())
			}

			out := cmd.OutOrStdout()
			if human {
				err = runner.WriteSummary(out)
			} else {
				writer := jwriter.NewWriter()
				runner.WriteReport(&writer)
				err = writer.Error()
				if err == nil {
					_, err = out.Write(append(writer.Bytes(), '\n'))
				}
			}

			options.logger.Debug("Replay::Done", slog.String("scenario", path), slog.Int("liveHandles", len(runner.Handles())))
			return errors.CombineErrors(err, runner.Close())
		},
	}

	cmd.Flags().BoolVar(&human, "human", false, "print a short summary instead of JSON")
	return cmd
}
