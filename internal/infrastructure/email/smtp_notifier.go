package email

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	Insecure bool
}

// SMTPNotifier delivers verification links directly, for setups without an email worker.
type SMTPNotifier struct {
	lg  zerolog.Logger
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig, lg zerolog.Logger) *SMTPNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPNotifier{
		lg:  lg.With().Str("component", "smtp_notifier").Logger(),
		cfg: cfg,
	}
}

func (n *SMTPNotifier) SendVerifyEmail(ctx context.Context, msg domain.VerifyEmailMessage) error {
	greeting := "Operator"
	if msg.DisplayName != "" {
		greeting = msg.DisplayName
	}
	text := fmt.Sprintf("Hello %s,\n\nConfirm your honeypot console account by opening this link:\n\n%s\n", greeting, msg.URL)
	body := renderVerifyHTML(greeting, msg.URL)
	return n.send(ctx, msg.Email, "Confirm your console account", text, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return domain.ErrInvalidField("from", err.Error())
	}
	if err := m.To(to); err != nil {
		return domain.ErrInvalidEmail()
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, textBody)
	m.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	tlsPolicy := mail.TLSMandatory
	if n.cfg.Insecure {
		tlsPolicy = mail.TLSOpportunistic
	}
	opts := []mail.Option{mail.WithPort(n.cfg.Port), mail.WithTLSPolicy(tlsPolicy)}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	c, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return domain.ErrProviderUnavailable(fmt.Errorf("smtp client: %w", err))
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		n.lg.Error().Err(err).Bool("auth_failure", isAuthFailure(err.Error())).Msg("smtp send failed")
		return domain.ErrProviderUnavailable(fmt.Errorf("smtp send: %w", err))
	}

	n.lg.Info().Str("subject", subject).Msg("smtp send ok")
	return nil
}

func isAuthFailure(msg string) bool {
	for _, s := range []string{"535", "5.7.8", "authentication"} {
		if strings.Contains(strings.ToLower(msg), s) {
			return true
		}
	}
	return false
}

func renderVerifyHTML(name, link string) string {
	escLink := html.EscapeString(link)
	return `<!doctype html>
<html>
  <body style="font-family:monospace; background:#0b0f14; color:#d1fae5; padding:24px;">
    <h2 style="color:#34d399;">HONEYPOT CONSOLE</h2>
    <p>Hello ` + html.EscapeString(name) + `,</p>
    <p>Confirm your operator account to unlock the dashboard.</p>
    <p>
      <a href="` + escLink + `" style="display:inline-block; padding:10px 14px; text-decoration:none; border:1px solid #34d399; color:#34d399;">
        Confirm account
      </a>
    </p>
    <p style="color:#6b7280; font-size:12px;">
      If the button does not work, open this link:<br/>
      <a href="` + escLink + `" style="color:#6b7280;">` + escLink + `</a>
    </p>
  </body>
</html>`
}
