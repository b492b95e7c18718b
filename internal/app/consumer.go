package app

import (
	"context"
	"fmt"
	"time"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/messaging/kafka/consumer"
	"go-hrms/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer stores notification events in the inbox table until a shutdown signal arrives.
func RunConsumer(in *Infra) error {
	logger := in.Logger.Named("app.consumer")

	if in.Cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notificationRepo := notification.NewRepository(in.GormDB)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{in.Cfg.Kafka.Broker},
		Topic:          in.Cfg.Kafka.NotificationTopic,
		GroupID:        in.Cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
		MaxWait:        time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Consume(ctx, reader, "notification", notification.NewInboxHandler(notificationRepo, logger), logger)
	}()

	sig := bootstrap.WaitForSignal()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()
	<-done
	return nil
}
