package email

import (
	"context"

	"apiexplorer/internal/config"
	"apiexplorer/internal/models"
)

// sender delivers a rendered message without blocking the caller.
type sender interface {
	IsEnabled() bool
	SendAsync(to []string, subject, htmlBody, textBody string)
}

// Notifier emails moderators about catalog events.
type Notifier struct {
	sender     sender
	templates  *Templates
	recipients []string
}

// NewNotifier creates a notifier sending to cfg.ModeratorEmails.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		sender:     NewService(cfg),
		templates:  NewTemplates(cfg),
		recipients: cfg.ModeratorEmails,
	}
}

// NotifyRequestSubmitted tells moderators a request joined the queue.
func (n *Notifier) NotifyRequestSubmitted(_ context.Context, req *models.Request) {
	if !n.sender.IsEnabled() || len(n.recipients) == 0 || req == nil {
		return
	}

	subject, htmlBody, textBody := n.templates.RequestSubmittedForReview(req)
	n.sender.SendAsync(n.recipients, subject, htmlBody, textBody)
}

// NotifyHealthCheckFailures tells moderators which links failed a probe pass.
func (n *Notifier) NotifyHealthCheckFailures(_ context.Context, entries []models.Entry) {
	if !n.sender.IsEnabled() || len(n.recipients) == 0 || len(entries) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.HealthCheckFailed(entries)
	n.sender.SendAsync(n.recipients, subject, htmlBody, textBody)
}
