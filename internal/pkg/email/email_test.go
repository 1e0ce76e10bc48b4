package email

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_LogsWhenUnconfigured(t *testing.T) {
	var buf bytes.Buffer
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}, zerolog.New(&buf))

	err := sender.SendOTP(context.Background(), Recipient{Name: "Asha", Email: "asha@college.edu", PhoneNumber: "9876543210"}, "482913", PurposeRegistration, 10*time.Minute)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[MOCK OTP]")
	assert.Contains(t, out, "482913")
	assert.Contains(t, out, "9876543210")
}

func TestRenderOTP(t *testing.T) {
	subject, body := renderOTP("Asha", "123456", PurposePasswordReset, 10*time.Minute)
	assert.Contains(t, subject, "password reset")
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10 minutes")

	subject, body = renderOTP("Asha", "654321", PurposeRegistration, 5*time.Minute)
	assert.Contains(t, subject, "verification")
	assert.Contains(t, body, "finish registering")
}

func TestBuildMessageHeaders(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{FromName: "CampusConnect", FromEmail: "no-reply@campus.edu"}, zerolog.Nop())
	msg := string(s.buildMessage("asha@college.edu", "Hi", "<p>body</p>"))

	assert.Contains(t, msg, "From: CampusConnect <no-reply@campus.edu>\r\n")
	assert.Contains(t, msg, "To: asha@college.edu\r\n")
	assert.Contains(t, msg, "\r\n\r\n<p>body</p>")
}
