package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	htmltemplate "html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"latent/internal/config"
	"latent/internal/models/db_models"
)

type IMailService interface {
	SendMailToNotifyUser(ctx context.Context, to, subject, body, ctaText, ctaURL string) error
	SendRoleDecision(ctx context.Context, account *db_models.Account, approved bool) error
}

// NewMailService returns an SMTP mailer, or a mailer that only logs when SMTP is not configured.
func NewMailService(cfg config.SMTPConfig, log *zap.Logger) IMailService {
	if !cfg.Enabled() {
		log.Warn("SMTP not configured, outgoing mail will only be logged")
		return &logMailService{cfg: cfg, log: log}
	}
	return NewSMTPMailService(cfg)
}

type smtpMailService struct {
	cfg     config.SMTPConfig
	htmlTpl *htmltemplate.Template
	textTpl *texttemplate.Template
	dialer  *net.Dialer
	now     func() time.Time
}

func NewSMTPMailService(cfg config.SMTPConfig) IMailService {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		dialer:  &net.Dialer{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendMailToNotifyUser(ctx context.Context, to, subject, body, ctaText, ctaURL string) error {
	msg, err := s.buildMessage(to, EmailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: ctaURL,
		ButtonTxt: ctaText,
		AppName:   s.cfg.AppName,
		Year:      s.now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, to, msg)
}

func (s *smtpMailService) SendRoleDecision(ctx context.Context, account *db_models.Account, approved bool) error {
	subject, body := roleDecisionText(account, approved)
	return s.SendMailToNotifyUser(ctx, account.Email, subject, body, "Sign in", strings.TrimRight(s.cfg.AppBaseURL, "/")+"/login")
}

func roleDecisionText(account *db_models.Account, approved bool) (subject, body string) {
	if approved {
		return "Your role request was approved",
			fmt.Sprintf("Hi %s, an administrator approved your request. You now have %s access.", account.DisplayName(), account.Role)
	}
	return "Your role request was declined",
		fmt.Sprintf("Hi %s, an administrator declined your role request. You can keep using your account as a participant.", account.DisplayName())
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const htmlTemplate = `<!doctype html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:32px 16px;background:#f8fafc;font-family:Helvetica,Arial,sans-serif;color:#0f172a">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:12px;padding:32px">
    <div style="font-weight:700;color:#1308fe;text-transform:uppercase">{{.AppName}}</div>
    <h1 style="font-size:24px">{{.Title}}</h1>
    <p style="line-height:1.6;color:#475569">{{.Intro}}</p>
    {{if .ButtonURL}}<p><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#1308fe;color:#ffffff;border-radius:8px;text-decoration:none">{{.ButtonTxt}}</a></p>{{end}}
    <p style="font-size:12px;color:#94a3b8">&copy; {{.Year}} {{.AppName}}</p>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
-- {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) buildMessage(to string, data EmailData) ([]byte, error) {
	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return nil, fmt.Errorf("render html mail: %w", err)
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return nil, fmt.Errorf("render text mail: %w", err)
	}

	now := s.now()
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())
	from := (&mail.Address{Name: s.cfg.FromName, Address: s.cfg.From}).String()

	var msg bytes.Buffer
	write := func(format string, a ...any) { fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", data.Title))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, tb.String())
	write("--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, hb.String())
	write("--%s--\r\n", boundary)

	return msg.Bytes(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = (&tls.Dialer{NetDialer: s.dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = s.dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		// STARTTLS path (typically port 587)
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

type logMailService struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func (l *logMailService) SendMailToNotifyUser(ctx context.Context, to, subject, body, ctaText, ctaURL string) error {
	l.log.Info("mail not sent (SMTP disabled)", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (l *logMailService) SendRoleDecision(ctx context.Context, account *db_models.Account, approved bool) error {
	subject, body := roleDecisionText(account, approved)
	return l.SendMailToNotifyUser(ctx, account.Email, subject, body, "", "")
}
