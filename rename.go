package main

import (
	"context"

	"github.com/Takashicc/repub/internal/config"
	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/store"
	"github.com/Takashicc/repub/internal/store/db"
	"github.com/Takashicc/repub/internal/util"
	"github.com/Takashicc/repub/internal/util/normalize"
	"github.com/Takashicc/repub/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <file-or-directory>",
		Short: "Print a rename command for each book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("char-list") {
				a.opts.CharList, _ = flags.GetString("char-list")
			}
			if flags.Changed("cache") {
				a.opts.CacheDSN, _ = flags.GetString("cache")
			}

			charList, err := config.LoadCharList(a.opts.CharList)
			if err != nil {
				log.Error("Error loading character list", zap.Error(err))
				return err
			}

			files, err := util.ListEpubFiles(args[0])
			if err != nil {
				log.Error("Error listing books", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			ctx := cmd.Context()
			runID := util.GenUUID()
			cache := openCache(ctx, a.opts.CacheDSN)
			if cache != nil {
				defer cache.Close()
			}

			log.Info("Renaming books",
				zap.String("run_id", runID),
				zap.Int("files", len(files)),
				zap.Int("workers", a.opts.WorkerPoolSize),
				zap.Int("char_list", len(charList)))

			w := worker.NewRenameWorker(normalize.New(charList), cache, runID)
			runBatch(ctx, cmd, a.opts, w, model.JobTypeRename, files, runID)
			return nil
		},
	}

	cmd.Flags().String("char-list", "", "File listing substrings removed from titles (default \"chars.txt\")")
	cmd.Flags().String("cache", "", "sqlite scan cache, e.g. repub.db")
	return cmd
}

// openCache opens and migrates the scan cache. A cache that cannot be
// opened is logged and the run continues without it.
func openCache(ctx context.Context, dsn string) *store.Store {
	if dsn == "" {
		return nil
	}

	d, err := db.NewDB(dsn)
	if err != nil {
		log.Warn("Error opening scan cache", zap.String("dsn", dsn), zap.Error(err))
		return nil
	}
	if err := d.Migrate(ctx); err != nil {
		log.Warn("Error migrating scan cache", zap.String("dsn", dsn), zap.Error(err))
		d.Close()
		return nil
	}

	s := store.NewStore(d.DB)
	if err := s.Ping(); err != nil {
		log.Warn("Error pinging scan cache", zap.String("dsn", dsn), zap.Error(err))
		s.Close()
		return nil
	}
	return s
}

func runBatch(ctx context.Context, cmd *cobra.Command, opts *config.Options, w worker.Worker, jobType string, files []string, runID string) worker.Summary {
	out := worker.NewLineWriter(cmd.OutOrStdout())
	pool := worker.NewPool(ctx, opts.WorkerPoolSize, w, out, runID)
	return pool.Run(model.NewJobList(jobType, files))
}
