package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "sevaportal/internal/errors"
	"sevaportal/internal/events"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
)

// OrderService handles placing and tracking orders.
type OrderService interface {
	Create(ctx context.Context, userID, serviceID uint, notes string) (*model.Order, error)
	// Get returns an order. Non-admin callers only see their own orders.
	Get(ctx context.Context, userID, orderID uint, isAdmin bool) (*model.Order, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uint, status model.PaymentStatus) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	services  repository.ServiceRepository
	publisher events.Publisher
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, services repository.ServiceRepository, publisher events.Publisher) OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &orderService{orders: orders, services: services, publisher: publisher}
}

// Create places a pending order for a catalog service at its current price.
func (s *orderService) Create(ctx context.Context, userID, serviceID uint, notes string) (*model.Order, error) {
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}

	order := &model.Order{
		UserID:        userID,
		ServiceID:     svc.ID,
		Amount:        svc.Price,
		Notes:         notes,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderCreated, order))
	return order, nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if !isAdmin && order.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListForUser(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus sets any known order status. Transitions are not restricted.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderStatusChanged, order))
	return order, nil
}

// UpdatePaymentStatus sets any known payment status, independently of the
// order status.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID uint, status model.PaymentStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	order, err := s.orders.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderPaymentStatusChanged, order))
	return order, nil
}
