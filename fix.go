package main

import (
	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/util"
	"github.com/Takashicc/repub/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFixCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <file-or-directory>",
		Short: "Write copies of each book with XHTML that strict readers accept",
		Long: `fix rewrites every .xhtml entry, replacing &nbsp; with &#160; and a bare
<html> root with a declared XHTML root. Copies are written to the output
directory, which is relative to each book unless absolute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				a.opts.FixOutputDir, _ = cmd.Flags().GetString("output")
			}

			files, err := util.ListEpubFiles(args[0])
			if err != nil {
				log.Error("Error listing books", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			w := worker.NewFixWorker(a.opts.FixOutputDir)
			runBatch(cmd.Context(), cmd, a.opts, w, model.JobTypeFix, files, util.GenUUID())
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output directory (default \"output\")")
	return cmd
}
