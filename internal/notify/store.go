package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

// Store defines the persistence operations required for webhook management.
type Store interface {
	CreateWebhookEndpoint(ctx context.Context, arg dbgen.CreateWebhookEndpointParams) (dbgen.WebhookEndpoint, error)
	UpdateWebhookEndpoint(ctx context.Context, arg dbgen.UpdateWebhookEndpointParams) (dbgen.WebhookEndpoint, error)
	GetWebhookEndpoint(ctx context.Context, id pgtype.UUID) (dbgen.WebhookEndpoint, error)
	ListWebhookEndpoints(ctx context.Context, arg dbgen.ListWebhookEndpointsParams) ([]dbgen.WebhookEndpoint, error)
	DeleteWebhookEndpoint(ctx context.Context, id pgtype.UUID) (int64, error)

	ListActiveEndpointsForTopic(ctx context.Context, topic string) ([]dbgen.WebhookEndpoint, error)
	EnqueueDelivery(ctx context.Context, arg dbgen.EnqueueDeliveryParams) (dbgen.WebhookDelivery, error)
	MarkDelivering(ctx context.Context, id pgtype.UUID) error
	MarkDelivered(ctx context.Context, arg dbgen.MarkDeliveredParams) error
	MarkDeliveryFailed(ctx context.Context, arg dbgen.MarkDeliveryFailedParams) error
	MoveToDLQ(ctx context.Context, arg dbgen.MoveToDLQParams) error
	InsertWebhookDlq(ctx context.Context, arg dbgen.InsertWebhookDlqParams) (dbgen.WebhookDlq, error)
	GetDeliveryByID(ctx context.Context, id pgtype.UUID) (dbgen.WebhookDelivery, error)
	ResetDeliveryForReplay(ctx context.Context, id pgtype.UUID) (dbgen.WebhookDelivery, error)
	DeleteDlqByDelivery(ctx context.Context, deliveryID pgtype.UUID) error
	ListWebhookDeliveries(ctx context.Context, arg dbgen.ListWebhookDeliveriesParams) ([]dbgen.WebhookDelivery, error)
	CountWebhookDeliveries(ctx context.Context, arg dbgen.CountWebhookDeliveriesParams) (int64, error)

	GetDomainEvent(ctx context.Context, id pgtype.UUID) (dbgen.DomainEvent, error)
}

// NewStore returns a Store backed by sqlc queries.
func NewStore(q *dbgen.Queries) Store {
	if q == nil {
		return nil
	}
	return q
}
