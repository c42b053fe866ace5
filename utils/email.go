package utils

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"

	"orgmanager-backend/dtos"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func (c *EmailConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if !config.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

// maxEmailedIssues caps how many row errors are listed in a summary email.
const maxEmailedIssues = 20

// ImportSummarySubject and ImportSummaryBody render the email sent when a
// background import finishes.
func ImportSummarySubject(job dtos.ImportJob) string {
	if job.Status == dtos.JobStatusFailed {
		return fmt.Sprintf("Import of %s failed", job.Type)
	}
	return fmt.Sprintf("Import of %s completed", job.Type)
}

func ImportSummaryBody(name string, job dtos.ImportJob) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n<p>Hi %s,</p>\n", html.EscapeString(ImportSummarySubject(job)), html.EscapeString(firstName(name)))

	if job.Status == dtos.JobStatusFailed || job.Result == nil {
		fmt.Fprintf(&b, "<p>The import could not be completed: <strong>%s</strong></p>\n", html.EscapeString(job.Error))
		b.WriteString("<p>The OrgManager Team</p>")
		return b.String()
	}

	r := job.Result
	fmt.Fprintf(&b, `<ul>
<li>Total records: <strong>%d</strong></li>
<li>Imported: <strong>%d</strong></li>
<li>Failed: <strong>%d</strong></li>
<li>Elapsed: %d ms</li>
</ul>
`, r.TotalRecords, r.SuccessCount, r.ErrorCount, r.ElapsedTime)

	if len(r.Errors) > 0 {
		b.WriteString("<p>Rows with errors:</p>\n<ul>\n")
		for i, issue := range r.Errors {
			if i == maxEmailedIssues {
				fmt.Fprintf(&b, "<li>... and %d more</li>\n", len(r.Errors)-maxEmailedIssues)
				break
			}
			fmt.Fprintf(&b, "<li>Line %d: %s</li>\n", issue.Line, html.EscapeString(issue.Message))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("<p>The OrgManager Team</p>")
	return b.String()
}

// SendImportSummaryEmail mails the outcome of a background import. It
// returns immediately; delivery failures are only logged.
func SendImportSummaryEmail(email, name string, job dtos.ImportJob) {
	if email == "" || !GetEmailConfig().Configured() {
		return
	}
	go func() {
		if err := SendEmail(email, ImportSummarySubject(job), ImportSummaryBody(name, job)); err != nil {
			log.Printf("[jobs] failed to send import summary for job %s to %s: %v", job.ID, email, err)
		}
	}()
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}
