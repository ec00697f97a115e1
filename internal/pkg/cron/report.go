package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/email"
	"github.com/timenest/timenest-backend-go/internal/pkg/storage"
)

const (
	weeklyReportJob    = "send_weekly_attendance_report"
	weeklyReportOffset = -1
	archivePrefix      = "reports"
)

// ReportSchedule decides when the weekly mail goes out.
type ReportSchedule struct {
	Location   *time.Location
	Weekday    time.Weekday
	Hour       int
	Interval   time.Duration
	Recipients []string
}

type ReportJobs struct {
	reportService report.ReportService
	roster        employee.RosterProvider
	emailService  email.EmailService
	archive       storage.FileStorage
	clock         clockwork.Clock
	schedule      ReportSchedule
}

func NewReportJobs(
	reportService report.ReportService,
	roster employee.RosterProvider,
	emailService email.EmailService,
	archive storage.FileStorage,
	clock clockwork.Clock,
	schedule ReportSchedule,
) *ReportJobs {
	if schedule.Location == nil {
		schedule.Location = time.Local
	}
	if schedule.Interval <= 0 {
		schedule.Interval = time.Hour
	}
	return &ReportJobs{
		reportService: reportService,
		roster:        roster,
		emailService:  emailService,
		archive:       archive,
		clock:         clock,
		schedule:      schedule,
	}
}

func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(weeklyReportJob, j.schedule.Interval, j.SendWeeklyReport)
}

// SendWeeklyReport mails last week's CSV and PDF once per week, in the
// configured weekday and hour. Ticks outside that window are no-ops.
func (j *ReportJobs) SendWeeklyReport(ctx context.Context) error {
	now := j.clock.Now().In(j.schedule.Location)
	if now.Weekday() != j.schedule.Weekday || now.Hour() != j.schedule.Hour {
		return nil
	}

	return j.Dispatch(ctx, weeklyReportOffset)
}

// Dispatch generates, archives and mails the report for one week.
// A week whose archive already exists is not sent again.
func (j *ReportJobs) Dispatch(ctx context.Context, weekOffset int) error {
	week, files, err := j.reportService.GenerateWeeklyFiles(ctx, weekOffset, report.FormatCSV, report.FormatPDF)
	if err != nil {
		return fmt.Errorf("failed to generate weekly report: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	dir := path.Join(archivePrefix, week.String())
	sent, err := j.archive.Exists(ctx, path.Join(dir, files[0].FileName))
	if err != nil {
		return fmt.Errorf("failed to check report archive: %w", err)
	}
	if sent {
		slog.InfoContext(ctx, "Cron: Weekly report already archived, skipping", "week", week.String())
		return nil
	}

	recipients, err := j.recipients(ctx)
	if err != nil {
		return err
	}

	urls, err := j.store(ctx, dir, files)
	if err != nil {
		return err
	}

	if err := j.emailService.SendWeeklyReport(ctx, recipients, week, files, urls); err != nil {
		slog.ErrorContext(ctx, "Cron: Failed to deliver weekly report",
			"week", week.String(),
			"recipients", len(recipients),
			"error", err)
		return nil
	}

	slog.InfoContext(ctx, "Cron: Weekly report sent", "week", week.String(), "recipients", len(recipients))
	return nil
}

// store archives every file, removing the ones already written if any upload fails.
func (j *ReportJobs) store(ctx context.Context, dir string, files []report.ReportFile) (map[string]string, error) {
	urls := make(map[string]string, len(files))
	stored := make([]string, 0, len(files))

	for _, f := range files {
		key, err := j.archive.Upload(ctx, bytes.NewReader(f.Content), path.Join(dir, f.FileName), f.ContentType)
		if err != nil {
			for _, k := range stored {
				if delErr := j.archive.Delete(ctx, k); delErr != nil {
					slog.WarnContext(ctx, "Cron: Failed to clean up partial archive", "key", k, "error", delErr)
				}
			}
			return nil, fmt.Errorf("failed to archive %s: %w", f.FileName, err)
		}
		stored = append(stored, key)

		url, err := j.archive.GetURL(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "Cron: Failed to resolve archive URL", "key", key, "error", err)
			continue
		}
		if url != "" {
			urls[f.FileName] = url
		}
	}

	return urls, nil
}

func (j *ReportJobs) recipients(ctx context.Context) ([]string, error) {
	if len(j.schedule.Recipients) > 0 {
		return j.schedule.Recipients, nil
	}

	admins, err := j.roster.ListByRole(ctx, employee.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to load report recipients: %w", err)
	}

	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email != "" {
			recipients = append(recipients, a.Email)
		}
	}
	if len(recipients) == 0 {
		return nil, report.ErrNoRecipients
	}
	return recipients, nil
}
