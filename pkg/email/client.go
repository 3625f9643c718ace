package email

import (
	"fmt"
	"net/smtp"
)

// Client handles email sending operations.
type Client struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool
}

// NewClient creates a new email client. A disabled client drops messages silently.
func NewClient(host, port, username, password, from string, enabled bool) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		enabled:  enabled,
	}
}

// Options represents the options for sending an email.
type Options struct {
	To      string
	Subject string
	HTML    string
}

// Send sends an email with HTML content.
func (c *Client) Send(opts Options) error {
	if !c.enabled {
		return nil
	}

	message := c.buildMessage(opts.To, opts.Subject, opts.HTML)

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	addr := fmt.Sprintf("%s:%s", c.host, c.port)

	if err := smtp.SendMail(addr, auth, c.from, []string{opts.To}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendEnrollmentConfirmation notifies a student that a course purchase settled.
func (c *Client) SendEnrollmentConfirmation(to, studentName, courseName string) error {
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment was verified and you are now enrolled in <strong>%s</strong>.</p>
		<p>All lectures are unlocked and ready to watch. Happy learning!</p>`,
		studentName, courseName)

	return c.Send(Options{
		To:      to,
		Subject: "Enrollment confirmed: " + courseName,
		HTML:    html,
	})
}

func (c *Client) buildMessage(to, subject, html string) string {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", c.from, to, subject)
	headers += "MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n"
	return headers + wrapHTMLTemplate(html)
}

func wrapHTMLTemplate(content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background: #f9f9f9;">
  <div style="padding: 32px;">
    <div style="max-width: 600px; margin: auto; background: #fff; border-radius: 8px; padding: 32px;">
      <div style="text-align: center; margin-bottom: 24px;">
        <h2 style="color: #2a7ae2; margin: 0;">LearnHub</h2>
      </div>
      <div style="font-size: 16px; color: #333;">%s</div>
    </div>
  </div>
</body>
</html>`, content)
}
