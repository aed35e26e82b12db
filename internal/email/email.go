// Package email sends task digest emails over SMTP.
package email

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DigestTask is the slice of a task that appears in a digest email.
type DigestTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Course      string `json:"course"`
	CourseCode  string `json:"courseCode"`
	DueDate     string `json:"dueDate"`
}

// Sender defines the interface for digest email delivery
type Sender interface {
	SendTaskDigest(toEmail, frequency string, tasks []DigestTask, daysWindow int) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type smtpSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSender creates a new SMTP-backed Sender
func NewSender(config SMTPConfig, logger zerolog.Logger) Sender {
	return &smtpSender{
		config: config,
		logger: logger.With().Str("service", "EmailSender").Logger(),
	}
}

// SendTaskDigest sends one digest email grouping the user's upcoming tasks
// by course.
func (s *smtpSender) SendTaskDigest(toEmail, frequency string, tasks []DigestTask, daysWindow int) error {
	// If username or password is empty, log the digest instead of sending
	// (for development only).
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Int("tasks", len(tasks)).
			Msg("SMTP credentials not configured - digest email not sent")
		return nil
	}

	subject := fmt.Sprintf("Your %s task digest", frequency)
	body := RenderTaskDigest(tasks, daysWindow)

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", toEmail))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send digest email to %s: %w", toEmail, err)
	}

	s.logger.Info().Str("toEmail", toEmail).Int("tasks", len(tasks)).Msg("Digest email sent")
	return nil
}

// RenderTaskDigest renders the digest HTML body: a header naming the window
// followed by one section per course with its tasks in due-date order.
func RenderTaskDigest(tasks []DigestTask, daysWindow int) string {
	byCourse := map[string][]DigestTask{}
	for _, task := range tasks {
		byCourse[task.Course] = append(byCourse[task.Course], task)
	}
	courses := make([]string, 0, len(byCourse))
	for course := range byCourse {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	var b strings.Builder
	b.WriteString(`<html><body><div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(fmt.Sprintf(`<h2 style="color: #333;">Upcoming tasks in the next %d days</h2>`, daysWindow))

	for _, course := range courses {
		group := byCourse[course]
		b.WriteString(fmt.Sprintf(`<h3 style="color: #555;">%s (%s)</h3><ul>`, course, group[0].CourseCode))
		for _, task := range group {
			b.WriteString(fmt.Sprintf(`<li><strong>%s</strong> &mdash; due %s`, task.Title, task.DueDate))
			if task.Description != "" {
				b.WriteString(fmt.Sprintf(`<br/><span style="color: #777;">%s</span>`, task.Description))
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`<p style="color: #999; font-size: 12px;">You are receiving this because email notifications are enabled in your settings.</p>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}
