package jobs

import (
	"context"
	"time"

	"MediBook/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	// Runs every day at 00:05 AM
	reportSchedule = "5 0 * * *"
	// Runs every day at 08:00 AM
	reminderSchedule = "0 8 * * *"
	jobTimeout       = 5 * time.Minute
)

type ReportRefresher interface {
	Refresh(ctx context.Context) (*models.FinancialReport, error)
}

type ReminderSender interface {
	SendFollowUpReminders(ctx context.Context, day time.Time) (int, error)
}

/*
* Register the nightly report snapshot and the morning follow-up reminders
* Start the scheduler; the caller stops it on shutdown
 */
func StartDailyScheduler(reports ReportRefresher, reminders ReminderSender) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(reportSchedule, func() {
		log.Info().Msg("Running daily financial report snapshot...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		RunReportSnapshot(ctx, reports)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(reminderSchedule, func() {
		log.Info().Msg("Running daily follow-up reminders...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		RunFollowUpReminders(ctx, reminders, time.Now().UTC())
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func RunReportSnapshot(ctx context.Context, reports ReportRefresher) {
	report, err := reports.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from Refresh")
		return
	}
	log.Info().
		Int("appointments", report.TotalAppointments).
		Float64("revenue", report.TotalRevenue).
		Msg("Financial report cached")
}

func RunFollowUpReminders(ctx context.Context, reminders ReminderSender, day time.Time) {
	sent, err := reminders.SendFollowUpReminders(ctx, day)
	if err != nil {
		log.Error().Err(err).Msg("Error from SendFollowUpReminders")
		return
	}
	log.Info().Int("sent", sent).Str("day", day.Format("2006-01-02")).Msg("Follow-up reminders sent")
}
