package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/rentkart/backend-rentkart/internal/common"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/notify"
)

func TestEmailNotifierSendsForRentalPaid(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	n := notify.EmailNotifier{Mail: outbox, Enabled: true}

	event := dbgen.DomainEvent{
		Topic:      events.TopicRentalPaid,
		Payload:    []byte(`{"email":"renter@example.com","rentalId":"7d3c9a"}`),
		OccurredAt: pgtype.Timestamptz{Time: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Valid: true},
	}
	require.NoError(t, n.Notify(context.Background(), event))
	require.Len(t, outbox.Outbox, 1)
	require.Equal(t, "renter@example.com", outbox.Outbox[0].To)
	require.Equal(t, "Payment confirmed", outbox.Outbox[0].Subject)
	require.Contains(t, outbox.Outbox[0].HTML, "7d3c9a")
}

func TestEmailNotifierSkipsQuietly(t *testing.T) {
	outbox := &common.InMemoryEmail{}

	// no recipient in the payload
	n := notify.EmailNotifier{Mail: outbox, Enabled: true}
	require.NoError(t, n.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicRentalPaid, Payload: []byte(`{}`)}))
	require.Empty(t, outbox.Outbox)

	// notifier disabled
	disabled := notify.EmailNotifier{Mail: outbox}
	require.NoError(t, disabled.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicRentalPaid, Payload: []byte(`{"email":"renter@example.com"}`)}))
	require.Empty(t, outbox.Outbox)

	// topic muted via toggle
	muted := notify.EmailNotifier{Mail: outbox, Enabled: true, TopicToggles: map[string]bool{events.TopicRentalPaid: false}}
	require.NoError(t, muted.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicRentalPaid, Payload: []byte(`{"email":"renter@example.com"}`)}))
	require.Empty(t, outbox.Outbox)
}
