package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	epoch   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errBoom = errors.New("boom")
)

type fakeUsers struct {
	calls map[string]int

	registerErr error
	loginErr    error
	updated     services.UserUpdate
	allowAdmin  bool
}

func (f *fakeUsers) hit(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeUsers) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	f.hit("Register")
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u-new", Username: username, Email: email, PasswordHash: "secret-hash"}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*services.Session, error) {
	f.hit("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.Session{
		User:        &models.User{ID: "u1", Username: "alice1", Email: email, PasswordHash: "secret-hash"},
		AccessToken: "tok",
	}, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd services.UserUpdate, allowAdminChange bool) (*models.User, error) {
	f.hit("Update")
	f.updated = upd
	f.allowAdmin = allowAdminChange
	u := &models.User{ID: id, Username: "alice1", Email: "alice@example.com", PasswordHash: "secret-hash"}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.hit("Delete")
	if id == "missing" {
		return common.ErrorNotFound
	}
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	f.hit("Get")
	return &models.User{ID: id}, nil
}

func (f *fakeUsers) List(_ context.Context, newest bool) ([]*models.User, error) {
	f.hit("List")
	if newest {
		f.hit("ListNewest")
	}
	return []*models.User{{ID: "u1"}}, nil
}

func (f *fakeUsers) Stats(context.Context) ([]models.MonthlyCount, error) {
	f.hit("Stats")
	return []models.MonthlyCount{{Year: 2026, Month: 2, Total: 3}}, nil
}

type fakeProducts struct {
	filter  models.ProductFilter
	created *models.Product
	url     string
	err     error
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	f.created = p
	p.ID = "p1"
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, id string, p *models.Product) (*models.Product, error) {
	p.ID = id
	return p, f.err
}

func (f *fakeProducts) Delete(context.Context, string) error { return f.err }

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{ID: id}, nil
}

func (f *fakeProducts) List(_ context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	f.filter = filter
	return []*models.Product{}, nil
}

func (f *fakeProducts) ImageUpload(_ context.Context, id string) (*models.ImageUpload, error) {
	return &models.ImageUpload{Key: "products/" + id + "/k", UploadURL: "https://s3.local/put"}, f.err
}

func (f *fakeProducts) ImageURL(context.Context, string) (string, error) { return f.url, f.err }

type fakeCarts struct {
	created *models.Cart
}

func (f *fakeCarts) Create(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	f.created = cart
	return cart, nil
}

func (f *fakeCarts) Replace(_ context.Context, userID string, items []models.LineItem) (*models.Cart, error) {
	return &models.Cart{UserID: userID, Products: items}, nil
}

func (f *fakeCarts) Delete(context.Context, string) error { return nil }

func (f *fakeCarts) Get(_ context.Context, userID string) (*models.Cart, error) {
	return &models.Cart{UserID: userID}, nil
}

func (f *fakeCarts) List(context.Context) ([]*models.Cart, error) { return nil, nil }

type fakeOrders struct {
	created *models.Order
	status  string
	byUser  error
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	f.created = o
	return o, nil
}

func (f *fakeOrders) SetStatus(_ context.Context, id, status string) (*models.Order, error) {
	f.status = status
	return &models.Order{ID: id, Status: status}, nil
}

func (f *fakeOrders) Delete(context.Context, string) error { return nil }

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]*models.Order, error) {
	if f.byUser != nil {
		return nil, f.byUser
	}
	return []*models.Order{{UserID: userID}}, nil
}

func (f *fakeOrders) List(context.Context) ([]*models.Order, error) { return nil, nil }

func (f *fakeOrders) Income(context.Context) ([]models.MonthlyIncome, error) {
	return []models.MonthlyIncome{{Year: 2026, Month: 2, Total: 120.5}}, nil
}

type fakePayments struct {
	err error
}

func (f *fakePayments) Capture(_ context.Context, tokenID string, amount int64) (*models.Charge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Charge{ID: "ch_1", Amount: amount, Source: tokenID, Status: "succeeded"}, nil
}

type testAPI struct {
	handler  http.Handler
	codec    *auth.TokenCodec
	clock    *time.Time
	users    *fakeUsers
	products *fakeProducts
	carts    *fakeCarts
	orders   *fakeOrders
	payments *fakePayments
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	now := epoch
	codec, err := auth.NewTokenCodec([]byte("test-secret"), time.Hour, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	api := &testAPI{
		codec:    codec,
		clock:    &now,
		users:    &fakeUsers{},
		products: &fakeProducts{},
		carts:    &fakeCarts{},
		orders:   &fakeOrders{},
		payments: &fakePayments{},
	}

	srv := NewServer(":0", logging.NewNopLogger(), Deps{
		Tokens:    codec,
		Validator: validation.New(),
		Users:     api.users,
		Products:  api.products,
		Carts:     api.carts,
		Orders:    api.orders,
		Payments:  api.payments,
	})
	api.handler = srv.Handler()
	return api
}

func (a *testAPI) token(t *testing.T, subject string, admin bool) string {
	t.Helper()
	tok, err := a.codec.Issue(subject, admin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set(common.AccessTokenHeaderName, token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	return w
}
