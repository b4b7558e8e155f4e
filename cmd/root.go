package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/mkv-organizer/internal/config"
	"github.com/MimeLyc/mkv-organizer/internal/service"
	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

type runFlags struct {
	configPath string
	dryRun     bool
	jobs       int
	schedule   string
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:           "mkv-organizer",
		Short:         "Organize videos and their sidecars into an MKV library",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizer(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultConfigFile, "Configuration file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Organize the configured root folder (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizer(cmd, flags)
		},
	}

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would be merged without writing anything")
		cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Number of videos processed concurrently")
		cmd.Flags().StringVar(&flags.schedule, "schedule", "", "Cron expression; keep running and organize on every tick")
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newConfigCommand(flags))

	return rootCmd
}

// loadConfig applies only the flags the user actually set on cmd.
func loadConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	var opts []config.Option
	if cmd.Flags().Changed("dry-run") {
		opts = append(opts, config.WithDryRun(flags.dryRun))
	}
	if cmd.Flags().Changed("jobs") {
		opts = append(opts, config.WithConcurrentJobs(flags.jobs))
	}
	if cmd.Flags().Changed("schedule") {
		opts = append(opts, config.WithSchedule(flags.schedule))
	}

	cfg, err := config.Load(flags.configPath, opts...)
	if err != nil {
		return nil, service.WrapError(err, service.ErrConfig, "load configuration").
			WithContext("path", flags.configPath)
	}
	return cfg, nil
}

// setupLogging installs the global logger. The returned func closes the log
// file, if any.
func setupLogging(cfg *config.Config) (func(), error) {
	level := log.ParseLevel(cfg.LogLevel)
	if cfg.LogFile == "" {
		log.InitLogger(level)
		return func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return nil, service.WrapError(err, service.ErrConfig, "open log file").WithContext("path", cfg.LogFile)
	}
	log.SetLogger(fileLogger.Logger)
	return func() { _ = fileLogger.Close() }, nil
}

func runOrganizer(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.New(*cfg, service.WithOutput(cmd.OutOrStdout()))

	if cfg.Schedule == "" {
		_, err := svc.Run(ctx)
		if err != nil {
			service.LogError(err)
		}
		return err
	}

	return runScheduled(ctx, svc)
}

func runScheduled(ctx context.Context, svc *service.Service) error {
	c := cron.New()
	if err := svc.Schedule(ctx, c); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	log.Info("Shutting down, waiting for the running pass to finish")
	<-c.Stop().Done()
	return nil
}
