package memory

import (
	"context"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
)

// LogNotifier writes verification links to the log instead of sending them.
// Used in dev when neither RabbitMQ nor SMTP is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) SendVerifyEmail(ctx context.Context, msg domain.VerifyEmailMessage) error {
	logger.Ctx(ctx).Info().
		Str("operator_id", msg.OperatorID).
		Str("url", msg.URL).
		Msg("[noop-notify] verify email")
	return nil
}
