package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// Notifier delivers operator alerts. *notify.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// eventPublisher writes engine events to the bus and the durable stream.
// A nil bus turns every call into a no-op.
type eventPublisher struct {
	bus    domain.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func (p eventPublisher) publish(ctx context.Context, channel string, typ domain.EventType, data map[string]any) {
	if p.bus == nil {
		return
	}
	payload, err := json.Marshal(domain.Event{Type: typ, OccurredAt: p.now().UTC(), Data: data})
	if err != nil {
		p.logger.WarnContext(ctx, "marshal event failed", slog.String("type", string(typ)), slog.String("error", err.Error()))
		return
	}
	if err := p.bus.Publish(ctx, channel, payload); err != nil {
		p.logger.WarnContext(ctx, "publish event failed", slog.String("type", string(typ)), slog.String("error", err.Error()))
	}
	if err := p.bus.StreamAppend(ctx, domain.EventStream, payload); err != nil {
		p.logger.WarnContext(ctx, "append event failed", slog.String("type", string(typ)), slog.String("error", err.Error()))
	}
}

// audit writes to the audit log if one is configured. Failures are logged.
func audit(ctx context.Context, store domain.AuditStore, logger *slog.Logger, event string, detail map[string]any) {
	if store == nil {
		return
	}
	if err := store.Log(ctx, event, detail); err != nil {
		logger.WarnContext(ctx, "audit log failed", slog.String("event", event), slog.String("error", err.Error()))
	}
}
