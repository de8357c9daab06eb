package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"
)

// In-memory fakes for the store/gateway/mailer contracts. The payment fake
// serializes its transitions with a mutex, mirroring the conditional-update
// semantics of the pgx repository.

type fakeOrderStore struct {
	mu       sync.Mutex
	orders   map[string]*model.Order
	payments *fakePaymentStore // set by newFakePaymentStore, feeds Stats income
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*model.Order{}}
}

func (s *fakeOrderStore) Create(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.CreatedAt = time.Now()
	cp := *o
	s.orders[o.OrderID] = &cp
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) ListByEmail(_ context.Context, email string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.CustomerEmail == email {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeOrderStore) List(_ context.Context, status string, limit, offset int) ([]model.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			all = append(all, *o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (s *fakeOrderStore) Stats(_ context.Context) (*model.DashboardStats, error) {
	s.mu.Lock()
	var st model.DashboardStats
	for _, o := range s.orders {
		st.TotalOrders++
		switch o.Status {
		case model.OrderStatusPending:
			st.PendingOrders++
		case model.OrderStatusPaid:
			st.PaidOrders++
		case model.OrderStatusCompleted:
			st.CompletedOrders++
		}
	}
	s.mu.Unlock()

	// income is the sum of completed payments, not of order totals; taken
	// outside the order lock because payment transitions lock in the
	// opposite order
	if s.payments != nil {
		st.TotalIncome = s.payments.completedIncome()
	}
	return &st, nil
}

func (s *fakeOrderStore) status(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		return o.Status
	}
	return ""
}

type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[string]*model.Payment // keyed by paypal order id
	orders   *fakeOrderStore
}

func newFakePaymentStore(orders *fakeOrderStore) *fakePaymentStore {
	s := &fakePaymentStore{payments: map[string]*model.Payment{}, orders: orders}
	orders.payments = s
	return s
}

func (s *fakePaymentStore) completedIncome() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, p := range s.payments {
		if p.Status == model.PaymentStatusCompleted {
			sum += p.Amount
		}
	}
	return sum
}

func (s *fakePaymentStore) Create(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.PaymentID = int64(len(s.payments) + 1)
	p.CreatedAt = time.Now()
	cp := *p
	s.payments[p.PayPalOrderID] = &cp
	return nil
}

func (s *fakePaymentStore) GetByPayPalOrderID(_ context.Context, id string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePaymentStore) GetByCaptureID(_ context.Context, captureID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.PayPalCaptureID != nil && *p.PayPalCaptureID == captureID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakePaymentStore) CompleteCapture(ctx context.Context, paypalOrderID, captureID, payerID string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paypalOrderID]
	if !ok || (p.Status != model.PaymentStatusPending && p.Status != model.PaymentStatusFailed) {
		return false, nil
	}
	p.Status = model.PaymentStatusCompleted
	p.PayPalCaptureID = &captureID
	if payerID != "" {
		p.PayPalPayerID = &payerID
	}
	p.PaidAt = &paidAt
	s.orders.UpdateStatus(ctx, p.OrderID, model.OrderStatusPaid)
	return true, nil
}

func (s *fakePaymentStore) FailCapture(ctx context.Context, paypalOrderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paypalOrderID]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusFailed
	s.orders.UpdateStatus(ctx, p.OrderID, model.OrderStatusPending)
	return true, nil
}

func (s *fakePaymentStore) RefundCapture(ctx context.Context, paypalOrderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paypalOrderID]
	if !ok || p.Status != model.PaymentStatusCompleted {
		return false, nil
	}
	p.Status = model.PaymentStatusRefunded
	s.orders.UpdateStatus(ctx, p.OrderID, model.OrderStatusPending)
	return true, nil
}

type fakePackageStore struct {
	mu       sync.Mutex
	packages map[string]*model.Package
}

func newFakePackageStore(pkgs ...*model.Package) *fakePackageStore {
	s := &fakePackageStore{packages: map[string]*model.Package{}}
	for _, p := range pkgs {
		cp := *p
		s.packages[p.PackageID] = &cp
	}
	return s
}

func (s *fakePackageStore) Create(_ context.Context, p *model.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.packages[p.PackageID] = &cp
	return nil
}

func (s *fakePackageStore) GetByID(_ context.Context, id string) (*model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.packages[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePackageStore) ListActive(_ context.Context, category string) ([]model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Package
	for _, p := range s.packages {
		if p.IsActive && (category == "" || p.Category == category) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePackageStore) Update(_ context.Context, p *model.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.packages[p.PackageID] = &cp
	return nil
}

func (s *fakePackageStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.packages, id)
	return nil
}

type fakeAdminStore struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]*model.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[int64]*model.Admin{}}
}

func (s *fakeAdminStore) Create(_ context.Context, email, passwordHash, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.admins[s.nextID] = &model.Admin{
		AdminID:      s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
	}
	return s.nextID, nil
}

func (s *fakeAdminStore) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeAdminStore) GetByID(_ context.Context, id int64) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type fakeGateway struct {
	mu            sync.Mutex
	createResult  *paypal.OrderResult
	createErr     error
	captureResult *paypal.CaptureResult
	captureErr    error
	captureCalls  int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, currency, description string) (*paypal.OrderResult, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.createResult, nil
}

func (g *fakeGateway) CaptureOrder(_ context.Context, paypalOrderID string) (*paypal.CaptureResult, error) {
	g.mu.Lock()
	g.captureCalls++
	g.mu.Unlock()
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	return g.captureResult, nil
}

func (g *fakeGateway) GetOrderStatus(_ context.Context, paypalOrderID string) (string, error) {
	return "COMPLETED", nil
}

type fakeMailer struct {
	confirmations atomic.Int32
	statusUpdates atomic.Int32
	sendErr       error
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, _ *model.Order, _ *model.Package) error {
	m.confirmations.Add(1)
	return m.sendErr
}

func (m *fakeMailer) SendStatusUpdate(_ context.Context, _ *model.Order, _ *model.Package, _ string) error {
	m.statusUpdates.Add(1)
	return m.sendErr
}
