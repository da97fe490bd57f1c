package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"sevaportal/internal/model"
)

// Event types emitted over an order's lifetime.
const (
	OrderCreated              = "order.created"
	OrderStatusChanged        = "order.status_changed"
	OrderPaymentStatusChanged = "order.payment_status_changed"
)

// OrderEvent is the payload published for every order change.
type OrderEvent struct {
	Type          string              `json:"type"`
	OrderID       uint                `json:"order_id"`
	UserID        uint                `json:"user_id"`
	ServiceID     uint                `json:"service_id"`
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// NewOrderEvent snapshots an order into an event of the given type.
func NewOrderEvent(typ string, o *model.Order) OrderEvent {
	return OrderEvent{
		Type:          typ,
		OrderID:       o.ID,
		UserID:        o.UserID,
		ServiceID:     o.ServiceID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		OccurredAt:    o.UpdatedAt,
	}
}

// Publisher accepts order events. Implementations must not block the caller
// on broker I/O.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent)
}

// Sender delivers one encoded message to a broker.
type Sender interface {
	Send(ctx context.Context, key, value []byte) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, OrderEvent) {}

const (
	queueSize   = 256
	sendTimeout = 5 * time.Second
)

// Dispatcher queues events and hands them to a Sender from a single
// background worker.
type Dispatcher struct {
	sender Sender
	queue  chan OrderEvent
	done   chan struct{}

	// mu guards closed; Publish holds it shared so Close cannot close the
	// queue under a pending send.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the worker. Call Close to drain and stop it.
func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan OrderEvent, queueSize),
		done:   make(chan struct{}),
	}
	go d.worker()
	return d
}

// Publish enqueues the event. When the queue is full, or the dispatcher is
// closed, the event is dropped and logged.
func (d *Dispatcher) Publish(_ context.Context, event OrderEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("events: dispatcher closed, dropping %s for order %d", event.Type, event.OrderID)
		return
	}
	select {
	case d.queue <- event:
	default:
		log.Printf("events: queue full, dropping %s for order %d", event.Type, event.OrderID)
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for event := range d.queue {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("events: encode %s: %v", event.Type, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		key := []byte(strconv.FormatUint(uint64(event.OrderID), 10))
		if err := d.sender.Send(ctx, key, payload); err != nil {
			log.Printf("events: send %s for order %d: %v", event.Type, event.OrderID, err)
		}
		cancel()
	}
}

// Close flushes queued events and closes the sender. Later calls only wait
// for the flush.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
	return d.sender.Close()
}
