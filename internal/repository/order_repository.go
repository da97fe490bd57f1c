package repository

import (
	"context"

	"gorm.io/gorm"

	"sevaportal/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) (*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order record.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID finds an order by ID.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser lists the orders referencing a user, oldest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List lists every order, oldest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the processing status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) (*model.Order, error) {
	return r.update(ctx, id, "status", status)
}

// UpdatePaymentStatus sets the payment status of an order.
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) (*model.Order, error) {
	return r.update(ctx, id, "payment_status", status)
}

// update locks the order, writes one column and returns the row as stored, so
// a concurrent write to the other status column is never overwritten.
func (r *orderRepository) update(ctx context.Context, id uint, column string, value interface{}) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRow(tx, &order, id).Error; err != nil {
			return err
		}
		if err := setOrderColumn(tx, id, column, value).Error; err != nil {
			return err
		}
		order = model.Order{}
		return tx.First(&order, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func setOrderColumn(tx *gorm.DB, id uint, column string, value interface{}) *gorm.DB {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update(column, value)
}
