package notify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/notify"
)

func toUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

type fakeStore struct {
	delivery  dbgen.WebhookDelivery
	endpoint  dbgen.WebhookEndpoint
	event     dbgen.DomainEvent
	endpoints []dbgen.WebhookEndpoint

	enqueued  int
	delivered []dbgen.MarkDeliveredParams
	failed    []dbgen.MarkDeliveryFailedParams
	dlq       []dbgen.MoveToDLQParams
}

func (f *fakeStore) CreateWebhookEndpoint(context.Context, dbgen.CreateWebhookEndpointParams) (dbgen.WebhookEndpoint, error) {
	return dbgen.WebhookEndpoint{}, errors.New("not implemented")
}

func (f *fakeStore) UpdateWebhookEndpoint(context.Context, dbgen.UpdateWebhookEndpointParams) (dbgen.WebhookEndpoint, error) {
	return dbgen.WebhookEndpoint{}, errors.New("not implemented")
}

func (f *fakeStore) GetWebhookEndpoint(context.Context, pgtype.UUID) (dbgen.WebhookEndpoint, error) {
	return f.endpoint, nil
}

func (f *fakeStore) ListWebhookEndpoints(context.Context, dbgen.ListWebhookEndpointsParams) ([]dbgen.WebhookEndpoint, error) {
	return nil, nil
}

func (f *fakeStore) DeleteWebhookEndpoint(context.Context, pgtype.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeStore) ListActiveEndpointsForTopic(context.Context, string) ([]dbgen.WebhookEndpoint, error) {
	return f.endpoints, nil
}

func (f *fakeStore) EnqueueDelivery(_ context.Context, arg dbgen.EnqueueDeliveryParams) (dbgen.WebhookDelivery, error) {
	f.enqueued++
	if f.enqueued == 1 {
		return dbgen.WebhookDelivery{}, &pgconn.PgError{Code: "23505"}
	}
	return dbgen.WebhookDelivery{ID: toUUID(uuid.New()), MaxAttempt: arg.MaxAttempt}, nil
}

func (f *fakeStore) MarkDelivering(context.Context, pgtype.UUID) error { return nil }

func (f *fakeStore) MarkDelivered(_ context.Context, arg dbgen.MarkDeliveredParams) error {
	f.delivered = append(f.delivered, arg)
	return nil
}

func (f *fakeStore) MarkDeliveryFailed(_ context.Context, arg dbgen.MarkDeliveryFailedParams) error {
	f.failed = append(f.failed, arg)
	return nil
}

func (f *fakeStore) MoveToDLQ(_ context.Context, arg dbgen.MoveToDLQParams) error {
	f.dlq = append(f.dlq, arg)
	return nil
}

func (f *fakeStore) InsertWebhookDlq(context.Context, dbgen.InsertWebhookDlqParams) (dbgen.WebhookDlq, error) {
	return dbgen.WebhookDlq{}, nil
}

func (f *fakeStore) GetDeliveryByID(context.Context, pgtype.UUID) (dbgen.WebhookDelivery, error) {
	return f.delivery, nil
}

func (f *fakeStore) ResetDeliveryForReplay(context.Context, pgtype.UUID) (dbgen.WebhookDelivery, error) {
	return dbgen.WebhookDelivery{}, errors.New("not implemented")
}

func (f *fakeStore) DeleteDlqByDelivery(context.Context, pgtype.UUID) error { return nil }

func (f *fakeStore) ListWebhookDeliveries(context.Context, dbgen.ListWebhookDeliveriesParams) ([]dbgen.WebhookDelivery, error) {
	return nil, nil
}

func (f *fakeStore) CountWebhookDeliveries(context.Context, dbgen.CountWebhookDeliveriesParams) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetDomainEvent(context.Context, pgtype.UUID) (dbgen.DomainEvent, error) {
	return f.event, nil
}

type captureEnqueuer struct {
	ids []string
}

func (c *captureEnqueuer) EnqueueWebhookDelivery(_ context.Context, deliveryID string, _ int) error {
	c.ids = append(c.ids, deliveryID)
	return nil
}

func TestSignatureAndHeaders(t *testing.T) {
	type recorded struct {
		req  *http.Request
		body []byte
	}
	received := make(chan recorded, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- recorded{req: r, body: body}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	dispatcher := &notify.Dispatcher{
		Client:  srv.Client(),
		Enabled: true,
	}
	endpoint := dbgen.WebhookEndpoint{Url: srv.URL, Secret: "secret", ID: toUUID(uuid.New())}
	event := dbgen.DomainEvent{
		ID:         toUUID(uuid.New()),
		Topic:      "rental.paid",
		Payload:    []byte(`{"id":1}`),
		OccurredAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	delivery := dbgen.WebhookDelivery{ID: toUUID(uuid.New())}

	status, _, err := dispatcher.Deliver(context.Background(), endpoint, event, delivery)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	record := <-received
	req := record.req
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, uuidString(event.ID), req.Header.Get("X-Event-ID"))
	require.Equal(t, uuidString(delivery.ID), req.Header.Get("X-Idempotency-Key"))
	timestamp := req.Header.Get("X-Timestamp")
	require.NotEmpty(t, timestamp)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	require.NoError(t, err)
	bodyBytes := record.body
	require.Equal(t, notify.ComputeSignature(endpoint.Secret, ts, req.Header.Get("X-Event-ID"), bodyBytes), req.Header.Get("X-Signature"))
}

func TestDeliverByIDRetryThenDLQ(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	deliveryID := uuid.New()
	store := &fakeStore{
		delivery: dbgen.WebhookDelivery{
			ID:         toUUID(deliveryID),
			EndpointID: toUUID(uuid.New()),
			EventID:    toUUID(uuid.New()),
			Status:     "PENDING",
			MaxAttempt: 2,
		},
		endpoint: dbgen.WebhookEndpoint{ID: toUUID(uuid.New()), Url: srv.URL, Secret: "secret"},
		event:    dbgen.DomainEvent{ID: toUUID(uuid.New()), Topic: "rental.paid", Payload: []byte(`{"id":1}`), OccurredAt: pgtype.Timestamptz{Time: time.Now(), Valid: true}},
	}

	dispatcher := &notify.Dispatcher{
		Store:              store,
		Client:             srv.Client(),
		DefaultMaxAttempts: 2,
		Enabled:            true,
	}

	err := dispatcher.DeliverByID(context.Background(), deliveryID.String(), false)
	require.Error(t, err)
	require.Len(t, store.failed, 1)

	require.NoError(t, dispatcher.DeliverByID(context.Background(), deliveryID.String(), true))
	require.Len(t, store.dlq, 1)
	require.Empty(t, store.delivered)
}

func TestDeliverByIDSkipsSettledDelivery(t *testing.T) {
	deliveryID := uuid.New()
	store := &fakeStore{
		delivery: dbgen.WebhookDelivery{ID: toUUID(deliveryID), Status: "DELIVERED"},
	}
	dispatcher := &notify.Dispatcher{Store: store, Enabled: true}

	require.NoError(t, dispatcher.DeliverByID(context.Background(), deliveryID.String(), false))
	require.Empty(t, store.failed)
	require.Empty(t, store.delivered)
}

func TestScheduleUniqueDelivery(t *testing.T) {
	store := &fakeStore{endpoints: []dbgen.WebhookEndpoint{{ID: toUUID(uuid.New())}, {ID: toUUID(uuid.New())}}}
	enqueuer := &captureEnqueuer{}
	dispatcher := &notify.Dispatcher{
		Store:    store,
		Enqueuer: enqueuer,
		Enabled:  true,
	}
	event := dbgen.DomainEvent{ID: toUUID(uuid.New()), Topic: "rental.created"}

	err := dispatcher.Schedule(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, 2, store.enqueued)
	require.Len(t, enqueuer.ids, 1)
}
