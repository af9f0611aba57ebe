package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

const (
	DefaultExchange = "console.events"

	RoutingVerifyEmail = "console.email.verify.requested"

	confirmWait = 2 * time.Second
)

// Publisher sends console events to a topic exchange with publisher confirms.
// Messages are mandatory, so an unbound routing key is reported as an error.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: DefaultExchange}
	if err := p.connect(); err != nil {
		return nil, domain.ErrRabbitUnavailable(err)
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

type verifyEmailEvent struct {
	OperatorID  string    `json:"operator_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	URL         string    `json:"url"`
	RequestedAt time.Time `json:"requested_at"`
}

func newVerifyEmailEvent(msg domain.VerifyEmailMessage, now time.Time) verifyEmailEvent {
	return verifyEmailEvent{
		OperatorID:  msg.OperatorID,
		Email:       msg.Email,
		DisplayName: msg.DisplayName,
		URL:         msg.URL,
		RequestedAt: now.UTC(),
	}
}

// SendVerifyEmail hands the verification link to the email worker.
func (p *Publisher) SendVerifyEmail(ctx context.Context, msg domain.VerifyEmailMessage) error {
	return p.publishJSON(ctx, RoutingVerifyEmail, newVerifyEmailEvent(msg, time.Now()))
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	p.resetConn()
	return p.connect()
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ErrInternal(fmt.Errorf("marshal payload: %w", err))
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return domain.ErrRabbitUnavailable(err)
	}

	// stale confirms/returns from an earlier timed-out publish
drain:
	for {
		select {
		case <-p.confirmCh:
		case <-p.returnCh:
		default:
			break drain
		}
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, true, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.resetConn()
		return domain.ErrRabbitUnavailable(fmt.Errorf("publish: %w", err))
	}

	// The broker sends basic.return before the ack for unroutable mandatory messages.
	for {
		select {
		case ret := <-p.returnCh:
			return domain.ErrRabbitUnavailable(fmt.Errorf("unroutable: key=%s code=%d text=%s", routingKey, ret.ReplyCode, ret.ReplyText))
		case conf := <-p.confirmCh:
			select {
			case ret := <-p.returnCh:
				return domain.ErrRabbitUnavailable(fmt.Errorf("unroutable: key=%s code=%d text=%s", routingKey, ret.ReplyCode, ret.ReplyText))
			default:
			}
			if !conf.Ack {
				return domain.ErrRabbitUnavailable(fmt.Errorf("nack: key=%s tag=%d", routingKey, conf.DeliveryTag))
			}
			return nil
		case <-ctx.Done():
			return domain.ErrRabbitUnavailable(ctx.Err())
		}
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
