package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"pizzashop/internal/models"
	"pizzashop/internal/services"
	"pizzashop/pkg/rabbitmq"

	"github.com/streadway/amqp"
)

// StatusConsumer applies status change messages published by the kitchen and
// delivery services.
type StatusConsumer struct {
	service *services.OrderService
	logger  *slog.Logger
}

// NewStatusConsumer creates a new StatusConsumer.
func NewStatusConsumer(service *services.OrderService, logger *slog.Logger) *StatusConsumer {
	return &StatusConsumer{
		service: service,
		logger:  logger,
	}
}

// Handle processes one delivery. Messages that can never apply (bad JSON,
// unknown order, rejected status) are marked permanent so they are dropped;
// storage failures are returned as is and requeued.
func (s *StatusConsumer) Handle(msg amqp.Delivery) error {
	var change models.StatusChangeMessage
	if err := json.Unmarshal(msg.Body, &change); err != nil {
		return rabbitmq.Permanent(fmt.Errorf("failed to decode status message: %w", err))
	}
	if change.OrderID == 0 {
		return rabbitmq.Permanent(errors.New("status message without order_id"))
	}

	err := s.service.UpdateOrderStatus(context.Background(), change.OrderID, change.Status)
	if err != nil {
		var ve *services.ValidationError
		if errors.Is(err, services.ErrOrderNotFound) || errors.As(err, &ve) {
			return rabbitmq.Permanent(err)
		}
		return err
	}

	s.logger.Info("applied status message", "order_id", change.OrderID, "status", change.Status, "routing_key", msg.RoutingKey)
	return nil
}
