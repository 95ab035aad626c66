package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	byID      map[string]*models.User
	nextID    int
	getErr    error
	createErr error
	updateErr error
	listLimit int
	since     time.Time
	stats     []models.MonthlyCount
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		r.byID[u.ID] = u
	}
	return r
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = fmt.Sprintf("u-new-%d", f.nextID)
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsersRepo) List(_ context.Context, limit int) ([]*models.User, error) {
	f.listLimit = limit
	var out []*models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsersRepo) CountByMonth(_ context.Context, since time.Time) ([]models.MonthlyCount, error) {
	f.since = since
	return f.stats, nil
}

// --- products ---

type fakeProductsRepo struct {
	byID      map[string]*models.Product
	filter    models.ProductFilter
	updateErr error
}

func (f *fakeProductsRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	p.ID = "p-new"
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProductsRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductsRepo) Update(_ context.Context, p *models.Product) (*models.Product, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return p, nil
}

func (f *fakeProductsRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProductsRepo) List(_ context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	f.filter = filter
	return nil, nil
}

// --- carts ---

type fakeCartsRepo struct {
	byUser map[string]*models.Cart
}

func (f *fakeCartsRepo) Create(_ context.Context, c *models.Cart) (*models.Cart, error) {
	if _, ok := f.byUser[c.UserID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	c.ID = "c-" + c.UserID
	f.byUser[c.UserID] = c
	return c, nil
}

func (f *fakeCartsRepo) GetByUserID(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCartsRepo) Update(_ context.Context, c *models.Cart) (*models.Cart, error) {
	existing, ok := f.byUser[c.UserID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	existing.Products = c.Products
	return existing, nil
}

func (f *fakeCartsRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.byUser[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byUser, userID)
	return nil
}

func (f *fakeCartsRepo) List(context.Context) ([]*models.Cart, error) {
	return nil, nil
}

// --- orders ---

type fakeOrdersRepo struct {
	byID    map[string]*models.Order
	since   time.Time
	income  []models.MonthlyIncome
	listErr error
}

func (f *fakeOrdersRepo) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	o.ID = "o-new"
	f.byID[o.ID] = o
	return o, nil
}

func (f *fakeOrdersRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrdersRepo) ListByUserID(_ context.Context, userID string) ([]*models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Order
	for _, o := range f.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrdersRepo) List(context.Context) ([]*models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return nil, nil
}

func (f *fakeOrdersRepo) Update(_ context.Context, o *models.Order) (*models.Order, error) {
	cp := *o
	f.byID[o.ID] = &cp
	return o, nil
}

func (f *fakeOrdersRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeOrdersRepo) IncomeByMonth(_ context.Context, since time.Time) ([]models.MonthlyIncome, error) {
	f.since = since
	return f.income, nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProductsRepo
	c *fakeCartsRepo
	o *fakeOrdersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository        { return m.p }
func (m *fakeRepoManager) Carts(dbx.DBTX) carts.Repository              { return m.c }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository            { return m.o }

// --- auth doubles ---

// plainHasher stores "hash:<password>" and counts calls.
type plainHasher struct {
	hashErr     error
	verifyErr   error
	hashCalls   int
	verifyCalls int
	lastHashed  string
}

func (h *plainHasher) Hash(p string) (string, error) {
	h.hashCalls++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hash:" + p, nil
}

func (h *plainHasher) Verify(p, hashed string) (bool, error) {
	h.verifyCalls++
	h.lastHashed = hashed
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hashed == "hash:"+p, nil
}

type stubIssuer struct {
	subject string
	admin   bool
	err     error
}

func (s *stubIssuer) Issue(subjectID string, isAdmin bool) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.subject, s.admin = subjectID, isAdmin
	return "token-for-" + subjectID, nil
}

var errBoom = errors.New("boom")
