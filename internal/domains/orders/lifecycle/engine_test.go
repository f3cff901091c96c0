package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

type countingSaver struct {
	saved []*domain.Order
	err   error
}

func (s *countingSaver) Save(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, order.Clone())
	return projection.New(order.Clone(), time.Time{}, time.Time{}), nil
}

type recordingNotifier struct {
	changes []ports.StatusChange
	err     error
}

func (n *recordingNotifier) NotifyStatusChanged(_ context.Context, change ports.StatusChange) error {
	n.changes = append(n.changes, change)
	return n.err
}

type constantHandler struct {
	from, to domain.Status
}

func (h constantHandler) HandledStatus() domain.Status { return h.from }

func (h constantHandler) Process(context.Context, *domain.Order) domain.Status { return h.to }

func persisted(status domain.Status) *ports.OrderProjection {
	return projection.New(&domain.Order{ID: 7, ProductID: 3, Quantity: 2, Status: status}, time.Time{}, time.Time{})
}

func newDefaultEngine(t *testing.T, saver OrderSaver, opts ...EngineOption) *Engine {
	t.Helper()
	registry, err := NewDefaultRegistry()
	require.NoError(t, err)
	return NewEngine(registry, saver, opts...)
}

func TestAdvance_WalksForwardOneStepWithOneWrite(t *testing.T) {
	steps := []struct{ from, to domain.Status }{
		{domain.StatusPending, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusShipped},
		{domain.StatusShipped, domain.StatusDelivered},
	}
	for _, s := range steps {
		t.Run(string(s.from), func(t *testing.T) {
			saver := &countingSaver{}
			engine := newDefaultEngine(t, saver)

			current := persisted(s.from)
			advanced, err := engine.Advance(context.Background(), current)
			require.NoError(t, err)
			require.Equal(t, s.to, advanced.Entity.Status)
			require.Len(t, saver.saved, 1)
			require.Equal(t, s.to, saver.saved[0].Status)
			require.Equal(t, s.from, current.Entity.Status, "input projection must not be mutated")
		})
	}
}

func TestAdvance_TerminalStatusIsNoop(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusDelivered, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			saver := &countingSaver{}
			notifier := &recordingNotifier{}
			engine := newDefaultEngine(t, saver, WithNotifier(notifier))

			current := persisted(status)
			result, err := engine.Advance(context.Background(), current)
			require.NoError(t, err)
			require.Same(t, current, result)
			require.Empty(t, saver.saved)
			require.Empty(t, notifier.changes)
		})
	}
}

func TestAdvance_NotifiesStatusChange(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	engine := newDefaultEngine(t, &countingSaver{}, WithNotifier(notifier), WithClock(func() time.Time { return now }))

	_, err := engine.Advance(context.Background(), persisted(domain.StatusPending))
	require.NoError(t, err)
	require.Equal(t, []ports.StatusChange{{
		OrderID: 7, ProductID: 3, From: domain.StatusPending, To: domain.StatusConfirmed, OccurredAt: now,
	}}, notifier.changes)
}

func TestAdvance_NotifierFailureDoesNotFailStep(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	engine := newDefaultEngine(t, &countingSaver{}, WithNotifier(notifier))

	advanced, err := engine.Advance(context.Background(), persisted(domain.StatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, advanced.Entity.Status)
	assert.Len(t, notifier.changes, 1)
}

func TestAdvance_SaveFailurePropagates(t *testing.T) {
	engine := newDefaultEngine(t, &countingSaver{err: errors.New("db down")})
	_, err := engine.Advance(context.Background(), persisted(domain.StatusPending))
	require.EqualError(t, err, "db down")
}

func TestAdvance_RejectsInvalidHandlerOutput(t *testing.T) {
	registry, err := NewRegistry([]Handler{constantHandler{from: domain.StatusPending, to: "LOST"}}, RequireStatuses())
	require.NoError(t, err)
	saver := &countingSaver{}
	engine := NewEngine(registry, saver)

	_, err = engine.Advance(context.Background(), persisted(domain.StatusPending))
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, saver.saved)
}

func TestAdvance_SameStatusStillWritesButDoesNotNotify(t *testing.T) {
	registry, err := NewRegistry([]Handler{constantHandler{from: domain.StatusPending, to: domain.StatusPending}}, RequireStatuses())
	require.NoError(t, err)
	saver := &countingSaver{}
	notifier := &recordingNotifier{}
	engine := NewEngine(registry, saver, WithNotifier(notifier))

	_, err = engine.Advance(context.Background(), persisted(domain.StatusPending))
	require.NoError(t, err)
	require.Len(t, saver.saved, 1)
	require.Empty(t, notifier.changes)
}

func TestAdvance_NilOrder(t *testing.T) {
	engine := newDefaultEngine(t, &countingSaver{})
	_, err := engine.Advance(context.Background(), nil)
	require.Error(t, err)
}
