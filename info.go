package main

import (
	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/util"
	"github.com/Takashicc/repub/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file-or-directory>",
		Short: "Print the book-type declared by each book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := util.ListEpubFiles(args[0])
			if err != nil {
				log.Error("Error listing books", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			runBatch(cmd.Context(), cmd, a.opts, &worker.InfoWorker{}, model.JobTypeInfo, files, util.GenUUID())
			return nil
		},
	}
}
