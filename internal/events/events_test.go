package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/model"
)

type recordingSender struct {
	mu     sync.Mutex
	keys   []string
	values [][]byte
	fail   bool
	closed bool
}

func (s *recordingSender) Send(_ context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker down")
	}
	s.keys = append(s.keys, string(key))
	s.values = append(s.values, value)
	return nil
}

func (s *recordingSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func TestDispatcherDeliversInOrderAndDrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender)

	order := &model.Order{ID: 12, UserID: 3, ServiceID: 5, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending, UpdatedAt: time.Now()}
	d.Publish(context.Background(), NewOrderEvent(OrderCreated, order))
	order.Status = model.OrderStatusProcessing
	d.Publish(context.Background(), NewOrderEvent(OrderStatusChanged, order))

	require.NoError(t, d.Close())

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.True(t, sender.closed)
	require.Len(t, sender.values, 2)
	assert.Equal(t, []string{"12", "12"}, sender.keys)

	var first, second OrderEvent
	require.NoError(t, json.Unmarshal(sender.values[0], &first))
	require.NoError(t, json.Unmarshal(sender.values[1], &second))
	assert.Equal(t, OrderCreated, first.Type)
	assert.Equal(t, model.OrderStatusPending, first.Status)
	assert.Equal(t, OrderStatusChanged, second.Type)
	assert.Equal(t, model.OrderStatusProcessing, second.Status)
	assert.Equal(t, uint(3), second.UserID)
}

func TestDispatcherSurvivesSendFailures(t *testing.T) {
	sender := &recordingSender{fail: true}
	d := NewDispatcher(sender)
	d.Publish(context.Background(), OrderEvent{Type: OrderCreated, OrderID: 1})
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close(), "second close must not panic")
}

func TestDispatcherDropsEventsAfterClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender)
	require.NoError(t, d.Close())

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), OrderEvent{Type: OrderStatusChanged, OrderID: 4})
	})
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Empty(t, sender.values)
}

func TestDispatcherPublishRacingClose(t *testing.T) {
	d := NewDispatcher(&recordingSender{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Publish(context.Background(), OrderEvent{Type: OrderCreated, OrderID: uint(j)})
			}
		}()
	}
	assert.NoError(t, d.Close())
	wg.Wait()
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	p.Publish(context.Background(), OrderEvent{Type: OrderCreated})
}
