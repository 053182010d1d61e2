package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ttrack/internal/bootstrap"
	trackerdto "ttrack/internal/modules/tracker/dto"
	"ttrack/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ttrack",
		Short:         "Work time tracker with reminders and worklog sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: user config dir)")

	root.AddCommand(newStartCmd(&configPath))
	root.AddCommand(newPauseCmd(&configPath))
	root.AddCommand(newResumeCmd(&configPath))
	root.AddCommand(newStopCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newTodayCmd(&configPath))
	root.AddCommand(newTasksCmd(&configPath))
	root.AddCommand(newDiscardCmd(&configPath))
	root.AddCommand(newSyncCmd(&configPath))
	root.AddCommand(newDaemonCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newNotifiersCmd(&configPath))
	return root
}

func loadApp(configPath string) (*bootstrap.App, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp wires app construction and teardown around a command body.
func withApp(configPath *string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newStartCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <task> <ticket>",
		Short: "Start tracking a task against a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("task id is required (see: ttrack tasks)")
			}
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Start(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s entry=%s at=%s\n",
					out.TaskName, out.EntryID, out.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newPauseCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Pause(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused %s %s\n", out.TaskName, out.Ticket)
				return nil
			})
		},
	}
}

func newResumeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Resume(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resumed %s %s\n", out.TaskName, out.Ticket)
				return nil
			})
		},
	}
}

func newStopCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active timer and close the entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Stop(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped entry=%s worked=%s\n", out.EntryID, formatWorked(out.Worked))
				if out.Anomaly {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "warning: clock moved backwards during this entry, duration was clamped")
				}
				return nil
			})
		},
	}
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Active(context.Background())
				if err != nil {
					return err
				}
				if out.State == trackerdto.TimerIdle {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "idle")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s elapsed=%s since=%s\n",
					out.State, out.TaskName, out.Ticket, formatWorked(out.Elapsed), out.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newTodayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List entries created today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				entries, err := app.TrackerCLI.ListToday(context.Background())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing tracked today")
					return nil
				}
				var total time.Duration
				for _, entry := range entries {
					total += entry.Worked
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s/%s",
						entry.ID, entry.TaskName, entry.Ticket, formatWorked(entry.Worked), entry.Status, entry.SyncStatus)
					if entry.SyncError != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\t%s", entry.SyncError)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total %s\n", formatWorked(total))
				return nil
			})
		},
	}
}

func newTasksCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List configured tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				tasks, err := app.CatalogCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks configured")
					return nil
				}
				for _, task := range tasks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", task.ID, task.Name, task.Category)
				}
				return nil
			})
		},
	}
}

func newDiscardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <entry-id>...",
		Short: "Delete unsynced closed entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Discard(context.Background(), args)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "discarded %d entries\n", out.Deleted)
				return nil
			})
		},
	}
}

func newSyncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced entries to the worklog backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				report, err := app.SyncCLI.RunPass(context.Background())
				if err != nil {
					return err
				}
				for _, outcome := range report.Outcomes {
					switch {
					case outcome.Skipped:
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tskipped\n", outcome.EntryID)
					case outcome.Err != "":
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tfailed\t%s\n", outcome.EntryID, outcome.Err)
					case outcome.Duplicate:
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tsynced (already recorded)\n", outcome.EntryID)
					default:
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tsynced\tworklog=%s\n", outcome.EntryID, outcome.RemoteRef)
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d synced, %d failed, %d skipped\n",
					report.Synced, report.Failed, report.Skipped)
				if report.Failed > 0 {
					return fmt.Errorf("sync finished with failures")
				}
				return nil
			})
		},
	}
}

func newDaemonCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder scheduler and periodic sync in the foreground",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return app.RunDaemon(ctx)
			})
		},
	}
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the ttrack terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(configPath, bootstrap.RunTUI)
		},
	}
}

func newNotifiersCmd(configPath *string) *cobra.Command {
	notifiers := &cobra.Command{Use: "notifiers", Short: "Notifier plugin operations"}

	notifiers.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List notifier manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				items, err := app.Reminder.ListNotifiers(context.Background())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers configured")
					return nil
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n",
						item.Name, item.Version, item.Enabled, item.Binary)
				}
				return nil
			})
		},
	})

	notifiers.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate notifier binaries and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(app *bootstrap.App) error {
				results, err := app.Reminder.CheckNotifiers(context.Background())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers configured")
					return nil
				}
				failing := false
				for _, result := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s reachable=%t checksum=%t lifecycle=%t",
						result.Name, result.Reachable, result.ChecksumOK, result.LifecycleOK)
					if result.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", result.Error)
						failing = true
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				if failing {
					return fmt.Errorf("notifier doctor found failing checks")
				}
				return nil
			})
		},
	})

	return notifiers
}

func formatWorked(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
