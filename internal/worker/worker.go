package worker

import (
	"context"
	"encoding/json"
	"time"

	"sealtrack/internal/config"
	"sealtrack/internal/events"
	"sealtrack/internal/logger"
	"sealtrack/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

type Worker struct {
	config     *config.Config
	logger     *logger.Logger
	reader     *kafka.Reader
	dispatcher *processors.Dispatcher
}

func New(cfg *config.Config, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "sealtrack-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:     cfg,
		logger:     logger,
		reader:     reader,
		dispatcher: processors.New(cfg, logger),
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for tracking events...")

	for {
		w.dispatcher.Probe()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var msg events.Message
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.dispatcher.Process(msg); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
