package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kuntur-store/core/catalog"
	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
	"kuntur-store/internal/errors"
)

// Memory is an in-memory Store used by tests and the CLI quote path. It is
// seeded with the reference catalog.
type Memory struct {
	mu sync.Mutex

	roles  map[uuid.UUID]catalog.Role
	plans  map[uuid.UUID]catalog.HostingPlan
	codes  map[string]*pricing.DiscountCode
	orders map[uuid.UUID]*order.Order
	audits map[uuid.UUID][]order.Interaction
}

// NewMemory creates a memory store seeded with the reference catalog.
// Panics if the reference data is inconsistent.
func NewMemory() *Memory {
	catalog.MustValidateReference()

	m := &Memory{
		roles:  make(map[uuid.UUID]catalog.Role),
		plans:  make(map[uuid.UUID]catalog.HostingPlan),
		codes:  make(map[string]*pricing.DiscountCode),
		orders: make(map[uuid.UUID]*order.Order),
		audits: make(map[uuid.UUID][]order.Interaction),
	}
	for _, r := range catalog.ReferenceRoles() {
		m.roles[r.ID] = r
	}
	for _, p := range catalog.ReferencePlans() {
		m.plans[p.ID] = p
	}
	return m
}

// AddCode registers a discount code
func (m *Memory) AddCode(c pricing.DiscountCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.codes[strings.ToUpper(c.Code)] = &c
}

// ActiveRolesByID implements CatalogStore
func (m *Memory) ActiveRolesByID(ctx context.Context, ids []uuid.UUID) ([]catalog.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []catalog.Role
	for _, id := range ids {
		if r, ok := m.roles[id]; ok && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

// ActivePlanByID implements CatalogStore
func (m *Memory) ActivePlanByID(ctx context.Context, id uuid.UUID) (*catalog.HostingPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans[id]
	if !ok || !p.Active {
		return nil, errors.NotFound("hosting plan", id.String())
	}
	return &p, nil
}

// ResolveCode implements DiscountStore
func (m *Memory) ResolveCode(ctx context.Context, code string, now time.Time) (*pricing.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.codes[strings.ToUpper(code)]
	if !ok || !c.Usable(now) {
		return nil, errors.InvalidCode(code)
	}
	cp := *c
	return &cp, nil
}

// ConsumeUse implements DiscountStore. The mutex serializes the
// read-modify-write the way the conditional UPDATE does in Postgres.
func (m *Memory) ConsumeUse(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.codes {
		if c.ID != id {
			continue
		}
		if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
			return errors.Conflict("discount code has no uses left")
		}
		c.TimesUsed++
		return nil
	}
	return errors.NotFound("discount code", id.String())
}

// CreateOrder implements OrderStore
func (m *Memory) CreateOrder(ctx context.Context, o *order.Order, initial *order.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[o.ID]; exists {
		return errors.Conflict("order already exists")
	}
	cp := *o
	m.orders[o.ID] = &cp
	if initial != nil {
		m.audits[o.ID] = append(m.audits[o.ID], *initial)
	}
	return nil
}

// GetOrder implements OrderStore
func (m *Memory) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrderLocked(id)
}

func (m *Memory) getOrderLocked(id uuid.UUID) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, errors.NotFound("order", id.String())
	}
	cp := *o
	return &cp, nil
}

// GetOrderDetail implements OrderStore
func (m *Memory) GetOrderDetail(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.getOrderLocked(id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{
		Order:        o,
		Interactions: append([]order.Interaction(nil), m.audits[id]...),
	}
	if o.HostingPlanID != nil {
		if p, ok := m.plans[*o.HostingPlanID]; ok {
			detail.HostingPlan = &p
		}
	}
	return detail, nil
}

// UpdatePayment implements OrderStore
func (m *Memory) UpdatePayment(ctx context.Context, upd PaymentUpdate) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[upd.OrderID]
	if !ok {
		return nil, errors.NotFound("order", upd.OrderID.String())
	}

	now := time.Now().UTC()
	o.PaymentStatus = upd.Status
	if upd.Method != "" {
		o.PaymentMethod = upd.Method
	}
	if upd.ComprobanteURL != "" {
		o.ComprobanteURL = upd.ComprobanteURL
		o.ComprobanteUploaded = &now
	}
	if upd.PaidAt != nil {
		o.PaidAt = upd.PaidAt
	}
	o.UpdatedAt = now

	cp := *o
	return &cp, nil
}

// AddInteraction implements OrderStore
func (m *Memory) AddInteraction(ctx context.Context, in *order.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[in.OrderID]; !ok {
		return errors.NotFound("order", in.OrderID.String())
	}
	m.audits[in.OrderID] = append(m.audits[in.OrderID], *in)
	return nil
}

// Close implements Store
func (m *Memory) Close() error {
	return nil
}
