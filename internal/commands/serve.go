package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/activity"
	"github.com/wealthtracker-dev/wealthtracker/internal/analytics"
	"github.com/wealthtracker-dev/wealthtracker/internal/backup"
	"github.com/wealthtracker-dev/wealthtracker/internal/budget"
	"github.com/wealthtracker-dev/wealthtracker/internal/cache"
	"github.com/wealthtracker-dev/wealthtracker/internal/notify"
	"github.com/wealthtracker-dev/wealthtracker/internal/recurring"
	"github.com/wealthtracker-dev/wealthtracker/internal/scheduler"
	"github.com/wealthtracker-dev/wealthtracker/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server with background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if port != 0 {
				a.cfg.Server.Port = port
			}
			return runServe(a)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	return cmd
}

func runServe(a *app) error {
	budgets := budget.NewService(a.budgets, a.txs, a.log)
	stats := analytics.NewService(a.accounts, a.txs, a.debts, a.notifications, a.log)
	engine := notify.NewEngine(
		notify.ThresholdsFromConfig(a.cfg.Notifications),
		budgets, a.accounts, a.txs, a.debts, a.recurring, a.notifications, a.log,
	)

	srv := server.New(server.Config{
		Port:           a.cfg.Server.Port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		Timeout:        time.Duration(a.cfg.Server.TimeoutSeconds) * time.Second,
		PlanRatePerMin: a.cfg.Server.PlanRatePerMin,
		DBPath:         a.db.Path(),
		Log:            a.log,
		Accounts:       a.accounts,
		Transactions:   a.txs,
		Debts:          a.debts,
		Budgets:        a.budgets,
		Notifications:  a.notifications,
		BudgetStatus:   budgets,
		Analytics:      stats,
		Notify:         engine,
		Cache:          cache.FromConfig(a.cfg.Cache),
		Activity: func(action, entity, details string) {
			if err := activity.Record(a.dataDir, activity.SourceAPI, action, entity, details); err != nil {
				a.log.Warn().Err(err).Msg("writing activity log")
			}
		},
	})

	sched := scheduler.New(a.log)
	recurringJob := recurring.NewJob(recurring.NewService(a.recurring, a.txs, a.log), a.log)
	if err := sched.AddJob(a.cfg.Schedules.Recurring, a.loggedJob(recurringJob)); err != nil {
		return fmt.Errorf("scheduling recurring job: %w", err)
	}
	if err := sched.AddJob(a.cfg.Schedules.Notifications, a.loggedJob(notify.NewJob(engine, a.log))); err != nil {
		return fmt.Errorf("scheduling notifications job: %w", err)
	}

	var uploader backup.Uploader
	if a.cfg.Backup.S3Bucket != "" {
		up, err := backup.NewS3Uploader(context.Background(), a.cfg.Backup.S3Bucket, a.cfg.Backup.S3Region)
		if err != nil {
			return err
		}
		uploader = up
	}
	backupSvc := backup.NewService(a.db, a.exporter(), a.dataDir, a.cfg.Backup, a.cfg.Git, uploader, a.log)
	if err := sched.AddJob(a.cfg.Schedules.Backup, a.loggedJob(backup.NewJob(backupSvc))); err != nil {
		return fmt.Errorf("scheduling backup job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	// Catch up recurring transactions that came due while the server
	// was down, instead of waiting for the next scheduled run.
	if err := sched.RunNow(a.loggedJob(recurringJob)); err != nil {
		a.log.Warn().Err(err).Msg("recurring catch-up failed")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// activityJob records successful scheduled runs in the activity log.
type activityJob struct {
	dataDir string
	job     scheduler.Job
}

func (j activityJob) Name() string { return j.job.Name() }

func (j activityJob) Run() error {
	if err := j.job.Run(); err != nil {
		return err
	}
	return activity.Record(j.dataDir, activity.SourceScheduler, j.job.Name(), "", "")
}

func (a *app) loggedJob(job scheduler.Job) scheduler.Job {
	return activityJob{dataDir: a.dataDir, job: job}
}
