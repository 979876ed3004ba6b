// Package mailer sends outbound mail through SendGrid, falling back to
// console logging when no API key is configured.
package mailer

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Service handles email sending.
type Service struct {
	fromEmail   string
	fromName    string
	sendGridKey string
	useSendGrid bool
}

// NewService creates a mailer. With an empty API key, sends are logged to
// the console instead of delivered (development mode).
func NewService(fromEmail, fromName, sendGridAPIKey string) *Service {
	if fromEmail == "" {
		fromEmail = "onboarding@resend.dev"
	}
	if fromName == "" {
		fromName = "Elite24 CRM"
	}
	useSendGrid := sendGridAPIKey != ""
	if useSendGrid {
		log.Printf("Email service initialized with SendGrid")
	} else {
		log.Printf("Email service in console-only mode (set SENDGRID_API_KEY for production)")
	}

	return &Service{
		fromEmail:   fromEmail,
		fromName:    fromName,
		sendGridKey: sendGridAPIKey,
		useSendGrid: useSendGrid,
	}
}

// Simulated reports whether sends are logged instead of delivered.
func (s *Service) Simulated() bool { return !s.useSendGrid }

// Send delivers an HTML email. A delivery failure is returned to the caller
// and never rolls back anything already written by the caller.
func (s *Service) Send(toEmail, subject, htmlBody string) error {
	if !s.useSendGrid {
		log.Printf("[EMAIL] %s", subject)
		log.Printf("   To: %s", toEmail)
		log.Printf("   From: %s <%s>", s.fromName, s.fromEmail)
		log.Printf("   Email NOT sent (console-only mode)")
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(s.sendGridKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("SendGrid error: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid returned error status %d: %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	log.Printf("Email sent to %s (SendGrid status: %d)", toEmail, response.StatusCode)
	return nil
}
