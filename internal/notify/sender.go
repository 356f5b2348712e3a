package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger discards every message.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification", "participant_id", msg.ParticipantID, "telegram_id", msg.TelegramID,
		"kind", msg.Kind, "text", msg.Text)
	return nil
}

// RedisSender appends messages to a Redis stream read by the chat bot.
type RedisSender struct {
	client *redis.Client
	stream string
}

// NewRedisSender creates a RedisSender writing to stream.
func NewRedisSender(client *redis.Client, stream string) *RedisSender {
	return &RedisSender{client: client, stream: stream}
}

// Send implements Sender.
func (s *RedisSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"chat_id": msg.TelegramID,
			"payload": string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}
