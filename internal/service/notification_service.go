package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/wallboard-service/internal/config"
	"github.com/spec-kit/wallboard-service/internal/events"
)

// NotificationService pushes presence events to the wallboard webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAgentCreated, n.handleAgentCreated)
	n.dispatcher.Subscribe(events.EventAgentStatusChanged, n.handleAgentStatusChanged)
	n.dispatcher.Subscribe(events.EventAgentDeleted, n.handleAgentDeleted)
}

func (n *NotificationService) handleAgentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentCreated", zap.String("agent_code", event.AgentCode), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAgentStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentStatusChanged", zap.String("agent_code", event.AgentCode), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAgentDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentDeleted", zap.String("agent_code", event.AgentCode), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("agent_code", event.AgentCode),
		zap.String("event_type", string(event.Type)))
}
