package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type memStore struct {
	mu       sync.Mutex
	carts    map[string]models.Cart
	products map[string]models.Product
	users    []models.User
	feedback []models.Feedback
	contacts []models.Contact

	saves int
	err   error
}

func newMemStore() *memStore {
	return &memStore{
		carts:    map[string]models.Cart{},
		products: map[string]models.Product{},
	}
}

func cloneCart(c models.Cart) *models.Cart {
	c.Products = append([]models.CartLine{}, c.Products...)
	return &c
}

func (m *memStore) FindCartByUser(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneCart(c), nil
}

func (m *memStore) CreateCart(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[c.UserID]; ok {
		return repo.ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.carts[c.UserID] = *cloneCart(*c)
	return nil
}

func (m *memStore) SaveCart(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.carts[c.UserID]
	if !ok || stored.Version != c.Version {
		return repo.ErrVersionConflict
	}
	c.Version++
	m.carts[c.UserID] = *cloneCart(*c)
	m.saves++
	return nil
}

func (m *memStore) FindProducts(_ context.Context, ids []string) (map[string]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]models.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memStore) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

func (m *memStore) FindUserByAddress(_ context.Context, address, city, state, pincode string) (*models.User, error) {
	return m.findUser(func(u models.User) bool {
		return u.Address == address && u.City == city && u.State == state && u.Pincode == pincode
	})
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	m.users = append(m.users, *u)
	return nil
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *memStore) CreateFeedback(_ context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	f.ID = uuid.NewString()
	m.feedback = append(m.feedback, *f)
	return nil
}

func (m *memStore) CreateContact(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c.ID = uuid.NewString()
	m.contacts = append(m.contacts, *c)
	return nil
}

type recordedEvent struct {
	topic, key string
	event      any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeGateway struct {
	got   payment.OrderRequest
	order payment.Order
	err   error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (payment.Order, error) {
	g.got = req
	return g.order, g.err
}

type fakeMailer struct {
	subject, body string
	err           error
}

func (f *fakeMailer) Send(_ context.Context, subject, body string) error {
	f.subject, f.body = subject, body
	return f.err
}

var errBoom = errors.New("boom")
