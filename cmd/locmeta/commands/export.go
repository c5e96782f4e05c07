package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
	"github.com/Sumatoshi-tech/locmeta/pkg/snapshot"
)

// ErrNotSnapshotPath is returned when the export target has no snapshot extension.
var ErrNotSnapshotPath = errors.New("snapshot path must end in .json or .json.lz4")

// NewExportCommand creates the export subcommand.
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Write the aggregated commits as a JSON snapshot",
		Long: `Write the aggregated commits as a JSON snapshot.

A .json.lz4 output is compressed with lz4. Snapshots load faster than the
CSV log and are accepted wherever a source is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshot.IsSnapshotPath(output) {
				return ErrNotSnapshotPath
			}

			e, err := setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer e.close()

			source := e.source(args)

			all, err := loadCommits(source, e.loc, e.logger)
			if err != nil {
				return err
			}

			err = snapshot.WriteFile(output, snapshot.New(source, all))
			if err != nil {
				return err
			}

			e.logger.Info("snapshot written", "path", output, "commits", len(all))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.json.lz4", "snapshot path (.json or .json.lz4)")

	return cmd
}
