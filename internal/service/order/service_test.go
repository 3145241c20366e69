package order

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
	"github.com/zhouzirui/ev-commerce/backend/internal/service/cart"
)

func validRequest() commerce.CheckoutRequest {
	return commerce.CheckoutRequest{
		Name:             "Ada Lovelace",
		Email:            "ada@example.com",
		CreditCardNumber: "4111111111111111",
		ExpiryDate:       "12/29",
		CVV:              "123",
		BillingAddress:   "1 Analytical Way, London",
	}
}

func newTestServices(m *metrics.Metrics) (*cart.Service, *Service) {
	carts := cart.NewService(catalog.NewMemoryStore(catalog.Seed()))
	return carts, NewService(carts, m, nil)
}

func TestCheckoutCreatesConfirmedOrderAndClearsCart(t *testing.T) {
	m := metrics.New()
	carts, svc := newTestServices(m)
	_, err := carts.Add("u1", "tesla-model-3", 2)
	require.NoError(t, err)
	_, err = carts.Add("u1", "nissan-leaf", 1)
	require.NoError(t, err)

	order, err := svc.Checkout("u1", validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, commerce.OrderConfirmed, order.Status)
	assert.Equal(t, commerce.PaymentCreditCard, order.PaymentMethod)
	assert.Equal(t, "1 Analytical Way, London", order.ShippingAddress)
	assert.Equal(t, "122000.00", order.Total.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "tesla-model-3", order.Items[0].VehicleID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Zero(t, carts.Count("u1"))

	got, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "evstore_checkout_orders_total 1")
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, svc := newTestServices(nil)
	_, err := svc.Checkout("u1", validRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutValidationKeepsCart(t *testing.T) {
	carts, svc := newTestServices(nil)
	_, _ = carts.Add("u1", "tesla-model-3", 1)

	req := validRequest()
	req.CVV = "12"
	_, err := svc.Checkout("u1", req)
	assert.ErrorIs(t, err, ErrInvalidCheckout)
	assert.Equal(t, 1, carts.Count("u1"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*commerce.CheckoutRequest)
		msg    string
	}{
		{"blank name", func(r *commerce.CheckoutRequest) { r.Name = "  " }, "name is required"},
		{"short name", func(r *commerce.CheckoutRequest) { r.Name = "A" }, "between 2 and 100"},
		{"bad email", func(r *commerce.CheckoutRequest) { r.Email = "not-an-email" }, "email should be valid"},
		{"named email", func(r *commerce.CheckoutRequest) { r.Email = "Ada <ada@example.com>" }, "email should be valid"},
		{"short card", func(r *commerce.CheckoutRequest) { r.CreditCardNumber = "4111" }, "16 digits"},
		{"spaced card", func(r *commerce.CheckoutRequest) { r.CreditCardNumber = "4111 1111 1111 1111" }, "16 digits"},
		{"bad expiry", func(r *commerce.CheckoutRequest) { r.ExpiryDate = "2029-12" }, "MM/YY"},
		{"long cvv", func(r *commerce.CheckoutRequest) { r.CVV = "12345" }, "3 or 4 digits"},
		{"no address", func(r *commerce.CheckoutRequest) { r.BillingAddress = "" }, "billing address"},
	}

	require.NoError(t, Validate(validRequest()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := Validate(req)
			require.ErrorIs(t, err, ErrInvalidCheckout)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	req := validRequest()
	req.CVV = "1234"
	req.PhoneNumber = "555-0100"
	assert.NoError(t, Validate(req))
}

func TestListByUserNewestFirstAndStatusUpdate(t *testing.T) {
	carts, svc := newTestServices(nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, _ = carts.Add("u1", "tesla-model-3", 1)
	first, err := svc.Checkout("u1", validRequest())
	require.NoError(t, err)
	_, _ = carts.Add("u1", "tesla-model-y", 1)
	second, err := svc.Checkout("u1", validRequest())
	require.NoError(t, err)

	orders := svc.ListByUser("u1")
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	assert.Empty(t, svc.ListByUser("u2"))

	updated, err := svc.UpdateStatus(first.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, commerce.OrderShipped, updated.Status)

	_, err = svc.UpdateStatus(first.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus("missing", "SHIPPED")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
