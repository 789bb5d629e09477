package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

type paymentDeps struct {
	provider *mockProvider
	users    *mockUserRepo
	orders   *mockOrderRepo
}

func newTestPaymentService() (*PaymentService, *paymentDeps) {
	d := &paymentDeps{provider: new(mockProvider), users: new(mockUserRepo), orders: new(mockOrderRepo)}
	return NewPaymentService(DefaultPaymentConfig(), d.provider, d.users, d.orders, newTestLogger()), d
}

func cart() []domain.CartItem {
	return []domain.CartItem{
		{Name: "Mug", Price: decimal.RequireFromString("129.90"), Quantity: 2, ImageURL: "https://img/mug.png"},
		{Name: "Tea", Price: decimal.NewFromInt(80), Quantity: 1, Description: "Green tea"},
	}
}

// ─── CreatePreference ────────────────────────────────────────────────────────

func TestCreatePreference_Success(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.users.On("GetEmail", ctx, "u1").Return("ana@example.com", nil)
	d.provider.On("CreatePreference", ctx, mock.MatchedBy(func(in *domain.PaymentIntent) bool {
		return len(in.Items) == 2 &&
			in.Items[0].Title == "Mug" && in.Items[0].Description == "Mug" && in.Items[0].CurrencyID == "MXN" &&
			in.Items[1].Description == "Green tea" &&
			in.PayerEmail == "ana@example.com" &&
			in.ExternalReference == "u1" &&
			in.NotificationURL == "https://receivemercadopagowebhook-vf47anzufq-uc.a.run.app" &&
			in.BackURLs.Success == "https://marcketapp-25ac2.web.app/payment/success" &&
			in.AutoReturn == "approved"
	})).Return(&provider.Preference{ID: "pref-1"}, nil)

	res, err := svc.CreatePreference(ctx, &CreatePreferenceInput{CartItems: cart(), UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", res.PreferenceID)
	d.provider.AssertExpectations(t)
}

func TestCreatePreference_EmailLookupFailureUsesPlaceholder(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.users.On("GetEmail", ctx, "u1").Return("", apperrors.NotFound("user", "u1"))
	d.provider.On("CreatePreference", ctx, mock.MatchedBy(func(in *domain.PaymentIntent) bool {
		return in.PayerEmail == "anonymous@example.com"
	})).Return(&provider.Preference{ID: "pref-2"}, nil)

	res, err := svc.CreatePreference(ctx, &CreatePreferenceInput{CartItems: cart(), UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "pref-2", res.PreferenceID)
}

func TestCreatePreference_EmptyEmailUsesPlaceholder(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.users.On("GetEmail", ctx, "u1").Return("", nil)
	d.provider.On("CreatePreference", ctx, mock.MatchedBy(func(in *domain.PaymentIntent) bool {
		return in.PayerEmail == "anonymous@example.com"
	})).Return(&provider.Preference{ID: "pref-3"}, nil)

	_, err := svc.CreatePreference(ctx, &CreatePreferenceInput{CartItems: cart(), UserID: "u1"})
	require.NoError(t, err)
}

func TestCreatePreference_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   *CreatePreferenceInput
		message string
	}{
		{"nil input", nil, msgCartRequired},
		{"empty cart", &CreatePreferenceInput{UserID: "u1"}, msgCartRequired},
		{"missing user", &CreatePreferenceInput{CartItems: cart()}, msgUserRequired},
		{"zero quantity", &CreatePreferenceInput{CartItems: []domain.CartItem{{Name: "Mug", Quantity: 0}}, UserID: "u1"}, "quantity"},
		{"negative price", &CreatePreferenceInput{CartItems: []domain.CartItem{{Name: "Mug", Quantity: 1, Price: decimal.NewFromInt(-1)}}, UserID: "u1"}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newTestPaymentService()
			_, err := svc.CreatePreference(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.CallableInvalidArgument, apperrors.CallableCode(err))
			assert.Contains(t, err.Error(), tt.message)
			d.provider.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePreference_Unconfigured(t *testing.T) {
	svc := NewPaymentService(DefaultPaymentConfig(), nil, new(mockUserRepo), new(mockOrderRepo), newTestLogger())

	_, err := svc.CreatePreference(context.Background(), &CreatePreferenceInput{CartItems: cart(), UserID: "u1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnconfigured))
	assert.Equal(t, apperrors.CallableInternal, apperrors.CallableCode(err))
}

func TestCreatePreference_ProviderFailure(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.users.On("GetEmail", ctx, "u1").Return("ana@example.com", nil)
	d.provider.On("CreatePreference", ctx, mock.Anything).Return(nil, errors.New("502 bad gateway"))

	_, err := svc.CreatePreference(ctx, &CreatePreferenceInput{CartItems: cart(), UserID: "u1"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgPreferenceFailed, appErr.Message)
	assert.Equal(t, apperrors.CallableInternal, apperrors.CallableCode(err))
}

// ─── HandleWebhook ───────────────────────────────────────────────────────────

func TestHandleWebhook_ApprovedUpdatesOrder(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "123").Return(&domain.PaymentStatus{
		ID: 123, Status: "approved", PaymentTypeID: "credit_card", ExternalReference: "orderA",
	}, nil)
	d.orders.On("ApplyPayment", ctx, "orderA", "preparing", int64(123), "credit_card").Return(nil)

	res, err := svc.HandleWebhook(ctx, "payment", "123")
	require.NoError(t, err)
	assert.Equal(t, WebhookApplied, res.Result)
	assert.Equal(t, "orderA", res.OrderID)
	d.orders.AssertExpectations(t)
}

func TestHandleWebhook_RedeliveryIsIdempotent(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "123").Return(&domain.PaymentStatus{
		ID: 123, Status: "approved", PaymentTypeID: "credit_card", ExternalReference: "orderA",
	}, nil)
	d.orders.On("ApplyPayment", ctx, "orderA", "preparing", int64(123), "credit_card").Return(nil)

	for i := 0; i < 3; i++ {
		res, err := svc.HandleWebhook(ctx, "payment", "123")
		require.NoError(t, err)
		assert.Equal(t, WebhookApplied, res.Result)
	}
	d.orders.AssertNumberOfCalls(t, "ApplyPayment", 3)
}

func TestHandleWebhook_NotApproved(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "9").Return(&domain.PaymentStatus{ID: 9, Status: "pending", ExternalReference: "orderA"}, nil)

	res, err := svc.HandleWebhook(ctx, "payment", "9")
	require.NoError(t, err)
	assert.Equal(t, WebhookNotApproved, res.Result)
	d.orders.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_ApprovedWithoutReference(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "9").Return(&domain.PaymentStatus{ID: 9, Status: "approved"}, nil)

	res, err := svc.HandleWebhook(ctx, "payment", "9")
	require.NoError(t, err)
	assert.Equal(t, WebhookNoReference, res.Result)
	d.orders.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_MissingOrderIsAcknowledged(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "9").Return(&domain.PaymentStatus{ID: 9, Status: "approved", ExternalReference: "ghost"}, nil)
	d.orders.On("ApplyPayment", ctx, "ghost", "preparing", int64(9), "").Return(apperrors.NotFound("order", "ghost"))

	res, err := svc.HandleWebhook(ctx, "payment", "9")
	require.NoError(t, err)
	assert.Equal(t, WebhookOrderMissing, res.Result)
}

func TestHandleWebhook_InvalidRequest(t *testing.T) {
	for _, tc := range []struct{ topic, id string }{
		{"merchant_order", "1"},
		{"payment", ""},
		{"", ""},
	} {
		svc, d := newTestPaymentService()
		_, err := svc.HandleWebhook(context.Background(), tc.topic, tc.id)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.HTTPStatus(err))
		d.provider.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
	}
}

func TestHandleWebhook_Unconfigured(t *testing.T) {
	svc := NewPaymentService(DefaultPaymentConfig(), nil, nil, new(mockOrderRepo), newTestLogger())

	_, err := svc.HandleWebhook(context.Background(), "payment", "1")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.True(t, errors.Is(err, apperrors.ErrUnconfigured))
}

func TestHandleWebhook_ProviderError(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "1").Return(nil, errors.New("timeout"))

	_, err := svc.HandleWebhook(ctx, "payment", "1")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}

func TestHandleWebhook_StoreError(t *testing.T) {
	svc, d := newTestPaymentService()
	ctx := context.Background()

	d.provider.On("GetPayment", ctx, "1").Return(&domain.PaymentStatus{ID: 1, Status: "approved", ExternalReference: "o1"}, nil)
	d.orders.On("ApplyPayment", ctx, "o1", "preparing", int64(1), "").Return(errors.New("deadlock"))

	_, err := svc.HandleWebhook(ctx, "payment", "1")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}
