package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"sevaportal/internal/model"
)

// MemoryStore keeps users, services and orders in process memory. Each entity
// type has one map keyed by an auto-incrementing id; filtered lookups are
// linear scans. Nothing is persisted.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[uint]*model.User
	userIDs    []uint
	nextUserID uint

	services      map[uint]*model.Service
	serviceIDs    []uint
	nextServiceID uint

	orders      map[uint]*model.Order
	orderIDs    []uint
	nextOrderID uint

	now func() time.Time
}

// NewMemoryStore creates an empty store. Ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]*model.User),
		nextUserID:    1,
		services:      make(map[uint]*model.Service),
		nextServiceID: 1,
		orders:        make(map[uint]*model.Order),
		nextOrderID:   1,
		now:           time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{s} }

// Services returns the catalog repository view of the store.
func (s *MemoryStore) Services() ServiceRepository { return &memoryServiceRepository{s} }

// Orders returns the order repository view of the store.
func (s *MemoryStore) Orders() OrderRepository { return &memoryOrderRepository{s} }

func cloneService(svc *model.Service) model.Service {
	c := *svc
	if svc.Requirements != nil {
		c.Requirements = append([]string(nil), svc.Requirements...)
	}
	return c
}

func cloneUser(u *model.User) model.User {
	c := *u
	if u.ReferredBy != nil {
		ref := *u.ReferredBy
		c.ReferredBy = &ref
	}
	return c
}

type memoryUserRepository struct {
	s *MemoryStore
}

// conflicts reports whether u collides with a stored user other than skip on
// username, email or referral code. Empty email and code never collide.
// Callers hold the write lock.
func (r *memoryUserRepository) conflicts(u *model.User, skip uint) bool {
	for _, id := range r.s.userIDs {
		if id == skip {
			continue
		}
		o := r.s.users[id]
		switch {
		case strings.EqualFold(o.Username, u.Username):
			return true
		case u.Email != "" && strings.EqualFold(o.Email, u.Email):
			return true
		case u.ReferralCode != "" && o.ReferralCode == u.ReferralCode:
			return true
		}
	}
	return false
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts(user, 0) {
		return ErrDuplicate
	}

	now := r.s.now()
	user.ID = r.s.nextUserID
	r.s.nextUserID++
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := cloneUser(user)
	r.s.users[user.ID] = &stored
	r.s.userIDs = append(r.s.userIDs, user.ID)
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (r *memoryUserRepository) findFirst(match func(*model.User) bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userIDs {
		if u := r.s.users[id]; match(u) {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.findFirst(func(u *model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findFirst(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memoryUserRepository) FindByReferralCode(_ context.Context, code string) (*model.User, error) {
	return r.findFirst(func(u *model.User) bool { return u.ReferralCode == code })
}

func (r *memoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]model.User, 0, len(r.s.userIDs))
	for _, id := range r.s.userIDs {
		users = append(users, cloneUser(r.s.users[id]))
	}
	return users, nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, id uint, name, email, phone string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r.conflicts(&model.User{Username: u.Username, Email: email}, id) {
		return nil, ErrDuplicate
	}
	u.Name = name
	u.Email = email
	u.Phone = phone
	u.UpdatedAt = r.s.now()
	c := cloneUser(u)
	return &c, nil
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id uint, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *memoryUserRepository) AddReferralReward(_ context.Context, id uint, amount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ReferralRewards += amount
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *memoryUserRepository) CountReferredBy(_ context.Context, referrerID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if u.ReferredBy != nil && *u.ReferredBy == referrerID {
			n++
		}
	}
	return n, nil
}

type memoryServiceRepository struct {
	s *MemoryStore
}

func (r *memoryServiceRepository) Create(_ context.Context, service *model.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	service.ID = r.s.nextServiceID
	r.s.nextServiceID++
	if service.CreatedAt.IsZero() {
		service.CreatedAt = r.s.now()
	}

	stored := cloneService(service)
	r.s.services[service.ID] = &stored
	r.s.serviceIDs = append(r.s.serviceIDs, service.ID)
	return nil
}

func (r *memoryServiceRepository) FindByID(_ context.Context, id uint) (*model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneService(svc)
	return &c, nil
}

func (r *memoryServiceRepository) filter(match func(*model.Service) bool) []model.Service {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	services := make([]model.Service, 0)
	for _, id := range r.s.serviceIDs {
		if svc := r.s.services[id]; match(svc) {
			services = append(services, cloneService(svc))
		}
	}
	return services
}

func (r *memoryServiceRepository) List(_ context.Context) ([]model.Service, error) {
	return r.filter(func(*model.Service) bool { return true }), nil
}

func (r *memoryServiceRepository) ListByCategory(_ context.Context, category string) ([]model.Service, error) {
	return r.filter(func(svc *model.Service) bool { return svc.Category == category }), nil
}

func (r *memoryServiceRepository) Categories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, id := range r.s.serviceIDs {
		c := r.s.services[id].Category
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (r *memoryServiceRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.serviceIDs)), nil
}

type memoryOrderRepository struct {
	s *MemoryStore
}

func (r *memoryOrderRepository) Create(_ context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	order.ID = r.s.nextOrderID
	r.s.nextOrderID++
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = model.PaymentStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	stored := *order
	r.s.orders[order.ID] = &stored
	r.s.orderIDs = append(r.s.orderIDs, order.ID)
	return nil
}

func (r *memoryOrderRepository) FindByID(_ context.Context, id uint) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *o
	return &c, nil
}

func (r *memoryOrderRepository) filter(match func(*model.Order) bool) []model.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]model.Order, 0)
	for _, id := range r.s.orderIDs {
		if o := r.s.orders[id]; match(o) {
			orders = append(orders, *o)
		}
	}
	return orders
}

func (r *memoryOrderRepository) ListByUser(_ context.Context, userID uint) ([]model.Order, error) {
	return r.filter(func(o *model.Order) bool { return o.UserID == userID }), nil
}

func (r *memoryOrderRepository) List(_ context.Context) ([]model.Order, error) {
	return r.filter(func(*model.Order) bool { return true }), nil
}

func (r *memoryOrderRepository) update(id uint, apply func(*model.Order)) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	apply(o)
	o.UpdatedAt = r.s.now()
	c := *o
	return &c, nil
}

func (r *memoryOrderRepository) UpdateStatus(_ context.Context, id uint, status model.OrderStatus) (*model.Order, error) {
	return r.update(id, func(o *model.Order) { o.Status = status })
}

func (r *memoryOrderRepository) UpdatePaymentStatus(_ context.Context, id uint, status model.PaymentStatus) (*model.Order, error) {
	return r.update(id, func(o *model.Order) { o.PaymentStatus = status })
}
