package notifier

import (
	"context"
	"encoding/json"

	"github.com/complianceassoc/portal/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Sender delivers a confirmation notice to its recipient.
type Sender interface {
	SendConfirmation(notice service.ConfirmedNotice) error
}

// Worker consumes payment.confirmed messages and sends confirmation email.
// Malformed messages are dropped; transient send failures are requeued so the
// broker redelivers them.
type Worker struct {
	sender Sender
	log    zerolog.Logger
}

func NewWorker(sender Sender, log zerolog.Logger) *Worker {
	return &Worker{sender: sender, log: log}
}

func (w *Worker) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.log.Info().Msg("notifier stopping")
				return
			case msg, ok := <-msgs:
				if !ok {
					w.log.Info().Msg("notifier channel closed")
					return
				}
				w.handle(msg)
			}
		}
	}()
}

func (w *Worker) handle(msg amqp.Delivery) {
	var notice service.ConfirmedNotice
	if err := json.Unmarshal(msg.Body, &notice); err != nil {
		// Redelivery cannot fix a message that does not parse.
		w.log.Warn().Err(err).Msg("notifier: malformed message")
		_ = msg.Nack(false, false)
		return
	}

	if err := w.sender.SendConfirmation(notice); err != nil {
		w.log.Warn().Err(err).Str("notice_id", notice.NoticeID).Msg("notifier: send failed, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	w.log.Info().Str("notice_id", notice.NoticeID).Str("recipient", notice.Email).
		Msg("notifier: handled confirmation")
	_ = msg.Ack(false)
}
