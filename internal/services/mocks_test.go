package services_test

import (
	"context"
	"time"

	"pizzashop/internal/models"
	"pizzashop/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockPizzaRepository is a mock implementation of repositories.PizzaRepository
type MockPizzaRepository struct {
	mock.Mock
}

func (m *MockPizzaRepository) GetAll(ctx context.Context) ([]models.Pizza, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pizza), args.Error(1)
}

func (m *MockPizzaRepository) GetNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPizzaRepository) GetByID(ctx context.Context, id uint) (*models.Pizza, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pizza), args.Error(1)
}

func (m *MockPizzaRepository) Upsert(ctx context.Context, pizza *models.Pizza) error {
	args := m.Called(ctx, pizza)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of repositories.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) LockByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateHeader(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) InsertItems(ctx context.Context, orderID uint, items []models.OrderItem) (int64, error) {
	args := m.Called(ctx, orderID, items)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FinalizeTotal(ctx context.Context, orderID uint, total models.Money) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *MockOrderRepository) GetDetails(ctx context.Context, orderID uint) (*models.OrderDetailView, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderDetailView), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, at time.Time) error {
	args := m.Called(ctx, orderID, status, at)
	return args.Error(0)
}

func (m *MockOrderRepository) GetStatus(ctx context.Context, orderID uint) (models.OrderStatus, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(models.OrderStatus), args.Error(1)
}

func (m *MockOrderRepository) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusUpdate, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderStatusUpdate), args.Error(1)
}

// mockStore hands out the mock repositories and runs transactions inline.
type mockStore struct {
	pizzas    *MockPizzaRepository
	customers *MockCustomerRepository
	orders    *MockOrderRepository
}

func newMockStore() *mockStore {
	return &mockStore{
		pizzas:    new(MockPizzaRepository),
		customers: new(MockCustomerRepository),
		orders:    new(MockOrderRepository),
	}
}

func (s *mockStore) Pizzas() repositories.PizzaRepository       { return s.pizzas }
func (s *mockStore) Customers() repositories.CustomerRepository { return s.customers }
func (s *mockStore) Orders() repositories.OrderRepository       { return s.orders }

func (s *mockStore) WithinTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.pizzas.AssertExpectations(t)
	s.customers.AssertExpectations(t)
	s.orders.AssertExpectations(t)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(event models.OrderPlacedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockRecorder is a mock implementation of services.PlacementRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) ObservePlacement(outcome string, took time.Duration) {
	m.Called(outcome, took)
}
