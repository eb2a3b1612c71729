package email

import (
	"fmt"
	"html"
	"strings"

	"apiexplorer/internal/config"
	"apiexplorer/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in the shared HTML email layout.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.5; color: #1f2937; max-width: 640px; margin: 0 auto; padding: 16px; }
        .header { background: #0f766e; color: white; padding: 16px; border-radius: 6px 6px 0 0; }
        .content { padding: 16px; border: 1px solid #e5e7eb; }
        .footer { padding: 12px; font-size: 12px; color: #6b7280; }
        .entry { border-left: 3px solid #0f766e; padding: 8px 12px; margin: 12px 0; }
        .error { color: #b91c1c; }
        .button { display: inline-block; background: #0f766e; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="header"><strong>%s</strong></div>
    <div class="content">%s</div>
    <div class="footer"><a href="%s">%s</a></div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, t.cfg.BaseURL, html.EscapeString(t.cfg.SiteTitle))
}

// RequestSubmittedForReview tells moderators a new API is waiting in the queue.
func (t *Templates) RequestSubmittedForReview(req *models.Request) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New API pending review: %s", t.cfg.SiteTitle, req.Name)

	content := fmt.Sprintf(`
        <p>A new API has been suggested and is waiting for a decision.</p>
        <div class="entry">
            <p><strong>%s</strong></p>
            <p><a href="%s">%s</a></p>
            <p>%s</p>
        </div>
        <p><a href="%s/panel" class="button">Open the admin panel</a></p>
    `,
		html.EscapeString(req.Name),
		html.EscapeString(req.Link),
		html.EscapeString(req.Link),
		html.EscapeString(req.Description),
		t.cfg.BaseURL,
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`New API pending review

Name: %s
Link: %s
Description: %s

Review at: %s/panel
`,
		req.Name,
		req.Link,
		req.Description,
		t.cfg.BaseURL,
	)
	return
}

// HealthCheckFailed lists entries whose links failed a probe.
func (t *Templates) HealthCheckFailed(entries []models.Entry) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %d API link(s) failed health check", t.cfg.SiteTitle, len(entries))

	var entriesHTML, entriesText strings.Builder
	for _, e := range entries {
		errorMsg := "Unknown error"
		if e.HealthError != nil {
			errorMsg = *e.HealthError
		}

		fmt.Fprintf(&entriesHTML, `
        <div class="entry">
            <p><strong>%s</strong> <a href="%s">%s</a></p>
            <p class="error">%s</p>
        </div>`,
			html.EscapeString(e.Name),
			html.EscapeString(e.Link),
			html.EscapeString(e.Link),
			html.EscapeString(errorMsg),
		)
		fmt.Fprintf(&entriesText, "\n- %s: %s\n  Error: %s\n", e.Name, e.Link, errorMsg)
	}

	content := fmt.Sprintf(`
        <p>The following %d API link(s) failed their health check:</p>
        %s
        <p><a href="%s/panel" class="button">Open the admin panel</a></p>
    `,
		len(entries),
		entriesHTML.String(),
		t.cfg.BaseURL,
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Health Check Alert

%d API link(s) failed their health check:
%s
Review at: %s/panel
`,
		len(entries),
		entriesText.String(),
		t.cfg.BaseURL,
	)
	return
}
