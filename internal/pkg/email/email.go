package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/timenest/timenest-backend-go/internal/config"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	// SendWeeklyReport mails the rendered files as attachments.
	// urls maps file names to archived locations and may be nil.
	SendWeeklyReport(ctx context.Context, recipients []string, week utils.WeekRange, files []report.ReportFile, urls map[string]string) error
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	sender    Sender
	templates *template.Template
}

// NewEmailService creates a new email service instance.
// With no SMTP host configured, sends are logged and skipped.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	var sender Sender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return NewEmailServiceWithSender(cfg, sender)
}

func NewEmailServiceWithSender(cfg config.SMTPConfig, sender Sender) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		sender:    sender,
		templates: tmpl,
	}, nil
}

type weeklyReportFile struct {
	Name string
	URL  string
}

type weeklyReportEmailData struct {
	Start  string
	End    string
	Files  []weeklyReportFile
	Sender string
}

func (s *emailServiceImpl) SendWeeklyReport(ctx context.Context, recipients []string, week utils.WeekRange, files []report.ReportFile, urls map[string]string) error {
	if len(recipients) == 0 {
		return report.ErrNoRecipients
	}

	data := weeklyReportEmailData{
		Start:  utils.FormatDay(week.Start),
		End:    utils.FormatDay(week.End),
		Sender: s.cfg.FromName,
	}
	for _, f := range files {
		data.Files = append(data.Files, weeklyReportFile{Name: f.FileName, URL: urls[f.FileName]})
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "weekly_report.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Weekly Attendance Report %s to %s", data.Start, data.End)
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())
	for _, f := range files {
		attach(m, f)
	}

	return s.send(ctx, m, recipients, subject)
}

func attach(m *gomail.Message, f report.ReportFile) {
	content := f.Content
	m.Attach(f.FileName,
		gomail.SetHeader(map[string][]string{"Content-Type": {f.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}),
	)
}

func (s *emailServiceImpl) send(ctx context.Context, m *gomail.Message, to []string, subject string) error {
	// Skip sending if SMTP is not configured
	if s.sender == nil {
		slog.WarnContext(ctx, "SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.InfoContext(ctx, "Email sent successfully", "to", to, "subject", subject)
	return nil
}
