package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Takashicc/repub/internal/config"
	"github.com/Takashicc/repub/internal/log"
	"github.com/spf13/cobra"
)

// app carries the configuration resolved before a subcommand runs.
type app struct {
	opts *config.Options
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "repub",
		Short: "repub suggests normalized file names for EPUB books",
		Long: `repub reads the Dublin Core creator and title of EPUB books and prints
a rename command for each one, using the form "[author]title.epub".

Nothing is renamed; the output is meant to be reviewed and run by hand.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			a.opts = opts
			log.Init(opts)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (toml, yaml or json)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.IntP("workers", "w", 0, "Number of books processed in parallel (default: number of CPUs)")

	rootCmd.AddCommand(newRenameCmd(a), newInfoCmd(a), newFixCmd(a))
	return rootCmd
}

// loadOptions reads the config file (or defaults) and applies the flags
// that were set explicitly.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	flags := cmd.Flags()

	var (
		opts *config.Options
		err  error
	)
	if file, _ := flags.GetString("config"); file != "" {
		opts, err = config.ParseFile(file)
	} else {
		opts, err = config.GetConfig()
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("log-level") {
		opts.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		opts.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("workers") {
		opts.WorkerPoolSize, _ = flags.GetInt("workers")
		if opts.WorkerPoolSize < 1 {
			opts.WorkerPoolSize = 1
		}
	}
	return opts, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
