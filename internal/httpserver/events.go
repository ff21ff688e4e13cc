package httpserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/transport"
)

const (
	EventLoggedIn       = "user_logged_in"
	EventLoggedOut      = "user_logged_out"
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
)

func newEvent(kind, email string, p *models.Product) transport.Event {
	return transport.Event{
		EventID: uuid.NewString(),
		Type:    kind,
		Email:   email,
		At:      time.Now().UTC(),
		Product: p,
	}
}

// publish never fails the request; delivery errors are only logged.
func publish(c echo.Context, p mykafka.Publisher, topic string, ev transport.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, ev.Email, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
