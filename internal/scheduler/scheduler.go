// Package scheduler runs the periodic jobs: nightly store snapshots and the
// morning reminder that asks merchants to file their daily style report.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/garmenthq/stylebot/internal/metrics"
	"github.com/garmenthq/stylebot/internal/notify"
	"github.com/garmenthq/stylebot/internal/store"
)

// Config selects which jobs run and when. Empty schedules disable a job.
type Config struct {
	BackupDir      string
	BackupSchedule string

	ReminderSchedule string
	Timezone         string
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// reminderText is what merchants receive every morning.
const reminderText = "Good morning!\n\n" +
	"Please fill in your daily style report using /morning-update.\n\n" +
	"*Available commands:*\n" +
	"• /add-style - Add a new style\n" +
	"• /current-styles - See your active styles and their current stage\n" +
	"• /update-stage - Update the stage for a single style\n" +
	"• /morning-update - Bulk update all your styles for today"

// New builds a scheduler with the configured jobs registered. The notifier
// may be nil, which disables reminders regardless of schedule.
func New(cfg Config, db *sql.DB, notifier notify.Notifier, m *metrics.Metrics, log zerolog.Logger) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
	}

	c := cron.New(cron.WithLocation(loc))
	s := &Scheduler{cron: c, log: log}

	if cfg.BackupSchedule != "" {
		_, err := c.AddFunc(cfg.BackupSchedule, func() {
			s.runBackup(db, cfg.BackupDir, m)
		})
		if err != nil {
			return nil, fmt.Errorf("scheduling backups: %w", err)
		}
	}

	if cfg.ReminderSchedule != "" && notifier != nil {
		_, err := c.AddFunc(cfg.ReminderSchedule, func() {
			s.runReminders(db, notifier, m)
		})
		if err != nil {
			return nil, fmt.Errorf("scheduling reminders: %w", err)
		}
	}

	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the runner and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runBackup(db *sql.DB, dir string, m *metrics.Metrics) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backup, err := store.Snapshot(ctx, db, dir)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled backup failed")
		return
	}
	m.BackupsTotal.Inc()
	s.log.Info().Str("path", backup.Path).Int64("size", backup.Size).Msg("scheduled backup written")
}

func (s *Scheduler) runReminders(db *sql.DB, notifier notify.Notifier, m *metrics.Metrics) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	merchants, err := DueReminders(ctx, db)
	if err != nil {
		s.log.Error().Err(err).Msg("collecting reminder recipients")
		return
	}

	for _, merchant := range merchants {
		err := notifier.Send(ctx, notify.Message{Merchant: merchant, Text: reminderText})
		if err != nil {
			s.log.Warn().Err(err).Str("merchant", merchant).Msg("reminder delivery failed")
			continue
		}
		m.RemindersSentTotal.Inc()
	}
	s.log.Info().Int("recipients", len(merchants)).Msg("morning reminders sent")
}

// DueReminders returns the merchants that currently have active styles and
// should receive the morning reminder.
func DueReminders(ctx context.Context, db *sql.DB) ([]string, error) {
	styles, err := store.ListAllStyles(ctx, db)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merchants []string
	for _, s := range styles {
		if !s.Active || s.ArchivedAt != nil || seen[s.Merchant] {
			continue
		}
		seen[s.Merchant] = true
		merchants = append(merchants, s.Merchant)
	}
	return merchants, nil
}
