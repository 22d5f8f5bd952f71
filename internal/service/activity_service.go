package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/docboard/internal/config"
	"github.com/spec-kit/docboard/internal/events"
)

// ActivityService turns domain events into the activity feed: structured
// log lines today, optionally mirrored to a chat webhook.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.ActivityConfig
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.ActivityConfig) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the event types that make up the feed.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventDocumentCreated, a.record("document created"))
	a.dispatcher.Subscribe(events.EventDocumentUpdated, a.record("document updated"))
	a.dispatcher.Subscribe(events.EventDocumentStatusChanged, a.record("document status changed"))
	a.dispatcher.Subscribe(events.EventDocumentDeleted, a.record("document deleted"))
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record("user registered"))
	a.dispatcher.Subscribe(events.EventUserRoleChanged, a.record("user role changed"))
}

func (a *ActivityService) record(message string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		a.logger.Info(message,
			zap.String("event_id", event.ID),
			zap.Int64("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		a.sendWebhookStub(ctx, event)
		return nil
	}
}

func (a *ActivityService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
