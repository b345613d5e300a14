package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"latent/internal/config"
	"latent/internal/models/db_models"
)

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:       "smtp.example.com",
		Port:       587,
		From:       "noreply@example.com",
		FromName:   "Latent",
		AppName:    "Latent",
		AppBaseURL: "https://latent.example.com/",
	}
}

func TestNewMailService_DisabledFallsBackToLog(t *testing.T) {
	svc := NewMailService(config.SMTPConfig{}, zap.NewNop())
	require.IsType(t, &logMailService{}, svc)

	account := &db_models.Account{FirstName: "Ada", Email: "ada@x.test", Role: db_models.RoleAudience}
	assert.NoError(t, svc.SendRoleDecision(context.Background(), account, true))

	assert.IsType(t, &smtpMailService{}, NewMailService(testSMTPConfig(), zap.NewNop()))
}

func TestBuildMessage(t *testing.T) {
	svc := NewSMTPMailService(testSMTPConfig()).(*smtpMailService)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }

	msg, err := svc.buildMessage("ada@x.test", EmailData{
		Title:     "Your role request was approved",
		Intro:     "Hi <Ada>",
		ButtonURL: "https://latent.example.com/login",
		ButtonTxt: "Sign in",
		AppName:   "Latent",
		Year:      2025,
	})
	require.NoError(t, err)
	body := string(msg)

	assert.Contains(t, body, "From: \"Latent\" <noreply@example.com>\r\n")
	assert.Contains(t, body, "To: ada@x.test\r\n")
	assert.Contains(t, body, "Subject: Your role request was approved\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative;")
	assert.Contains(t, body, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, body, "Sign in: https://latent.example.com/login")
	// html part escapes user-controlled text
	assert.Contains(t, body, "Hi &lt;Ada&gt;")
	assert.True(t, strings.HasSuffix(body, "--\r\n"))
}

func TestRoleDecisionText(t *testing.T) {
	account := &db_models.Account{FirstName: "Ada", LastName: "Lovelace", Role: db_models.RoleAudience}

	subject, body := roleDecisionText(account, true)
	assert.Equal(t, "Your role request was approved", subject)
	assert.Contains(t, body, "audience access")

	subject, body = roleDecisionText(account, false)
	assert.Equal(t, "Your role request was declined", subject)
	assert.Contains(t, body, "participant")
}
