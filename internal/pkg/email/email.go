package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Purpose tells the recipient why a code was sent
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password_reset"
)

// Recipient identifies who a one-time code is for
type Recipient struct {
	Name        string
	Email       string
	PhoneNumber string
}

// OTPSender delivers one-time codes
type OTPSender interface {
	SendOTP(ctx context.Context, to Recipient, code string, purpose Purpose, ttl time.Duration) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	// UseTLS dials an implicit TLS connection (port 465 style)
	UseTLS bool
}

// Configured reports whether credentials are present
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPSender mails codes. Without credentials it logs the code instead, which
// is how local development receives OTPs.
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

var _ OTPSender = (*SMTPSender)(nil)

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// SendOTP sends code to the recipient's email address
func (s *SMTPSender) SendOTP(ctx context.Context, to Recipient, code string, purpose Purpose, ttl time.Duration) error {
	if !s.config.Configured() {
		s.logger.Warn().
			Str("phone", to.PhoneNumber).
			Str("email", to.Email).
			Str("purpose", string(purpose)).
			Str("otp", code).
			Msg("[MOCK OTP] SMTP not configured, code logged instead of sent")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body := renderOTP(to.Name, code, purpose, ttl)
	if err := s.sendHTMLEmail(to.Email, subject, body); err != nil {
		return err
	}

	s.logger.Info().Str("email", to.Email).Str("purpose", string(purpose)).Msg("OTP email sent")
	return nil
}

func renderOTP(name, code string, purpose Purpose, ttl time.Duration) (subject, body string) {
	action := "verify your phone number and finish registering"
	subject = "Your CampusConnect verification code"
	if purpose == PurposePasswordReset {
		action = "reset your password"
		subject = "Your CampusConnect password reset code"
	}

	body = fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>Use the code below to %s:</p>
				<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
				<p>The code expires in %d minutes. If you did not request it, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, name, action, code, int(ttl.Minutes()))
	return subject, body
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *SMTPSender) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
