package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/infrastructure/metrics"
)

// QueueMailer implementa ports.Mailer enfileirando as mensagens no Redis.
// O envio real é feito pelo Worker.
type QueueMailer struct {
	composer *Composer
	rdb      *redis.Client
	key      string
}

var _ ports.Mailer = (*QueueMailer)(nil)

// NewQueueMailer cria um QueueMailer que publica na lista key
func NewQueueMailer(composer *Composer, rdb *redis.Client, key string) *QueueMailer {
	return &QueueMailer{composer: composer, rdb: rdb, key: key}
}

func (q *QueueMailer) SendAccountActivation(ctx context.Context, user *entities.User, token string) error {
	msg, err := q.composer.AccountActivation(user, token)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, msg)
}

func (q *QueueMailer) SendPasswordReset(ctx context.Context, user *entities.User, token string) error {
	msg, err := q.composer.PasswordReset(user, token)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, msg)
}

func (q *QueueMailer) enqueue(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, data).Err(); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "enqueue_failed").Inc()
		return fmt.Errorf("lpush mail: %w", err)
	}
	metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "queued").Inc()
	return nil
}

const (
	// maxDeliveryAttempts limita as tentativas antes de descartar a mensagem
	maxDeliveryAttempts = 3
	defaultRetryDelay   = time.Second
)

// Worker consome a fila de emails e entrega via Sender
type Worker struct {
	rdb         *redis.Client
	key         string
	sender      Sender
	logger      ports.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

// NewWorker cria um Worker para a lista key
func NewWorker(rdb *redis.Client, key string, sender Sender, logger ports.Logger) *Worker {
	return &Worker{
		rdb:         rdb,
		key:         key,
		sender:      sender,
		logger:      logger,
		pollTimeout: 5 * time.Second,
		retryDelay:  defaultRetryDelay,
	}
}

// ProcessOne espera até timeout por uma mensagem e a entrega.
// Retorna false quando a fila estava vazia. Uma entrega que falha volta
// para o fim da fila até maxDeliveryAttempts; depois é descartada com log.
func (w *Worker) ProcessOne(ctx context.Context, timeout time.Duration) (bool, error) {
	result, err := w.rdb.BRPop(ctx, timeout, w.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("brpop mail: %w", err)
	}

	// result = [key, value]
	var msg Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		w.logger.Error("discarding malformed mail", "error", err)
		return true, nil
	}

	if err := w.sender.Send(ctx, msg); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "failed").Inc()
		return true, w.retry(ctx, msg, err)
	}
	metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "sent").Inc()
	return true, nil
}

func (w *Worker) retry(ctx context.Context, msg Message, sendErr error) error {
	msg.Attempts++
	if msg.Attempts >= maxDeliveryAttempts {
		w.logger.Error("dropping mail after repeated failures",
			"kind", msg.Kind,
			"to", msg.To,
			"subject", msg.Subject,
			"attempts", msg.Attempts,
			"error", sendErr,
		)
		return fmt.Errorf("send mail: %w", sendErr)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	if err := w.rdb.LPush(ctx, w.key, data).Err(); err != nil {
		w.logger.Error("failed to requeue mail",
			"kind", msg.Kind,
			"to", msg.To,
			"error", err,
		)
		return fmt.Errorf("requeue mail: %w", errors.Join(sendErr, err))
	}
	return fmt.Errorf("send mail (attempt %d, requeued): %w", msg.Attempts, sendErr)
}

// Run processa a fila até o contexto ser cancelado. Após um erro espera
// retryDelay antes da próxima leitura.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("mail worker started", "queue", w.key)
	for {
		if ctx.Err() != nil {
			w.logger.Info("mail worker stopped")
			return
		}

		_, err := w.ProcessOne(ctx, w.pollTimeout)
		if err == nil || ctx.Err() != nil {
			continue
		}
		w.logger.Error("mail delivery failed", "error", err)

		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}
