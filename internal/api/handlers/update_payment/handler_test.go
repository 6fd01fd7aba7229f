package update_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-BookingService/internal/service/bookings/models"
)

type mockBookingService struct {
	updatePaymentFn func(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error
}

func (m *mockBookingService) UpdatePayment(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error {
	return m.updatePaymentFn(ctx, bookingNumber, req)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/CWB-20260310090000-0001/payment", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingNumber": "CWB-20260310090000-0001"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	t.Run("body with payment method accepted", func(t *testing.T) {
		var gotReq *models.UpdatePaymentRequest
		svc := &mockBookingService{
			updatePaymentFn: func(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error {
				gotReq = req
				return nil
			},
		}
		h := NewHandler(svc, nopLogger{})

		rec := doRequest(h, `{"method": "cash", "status": "PAID", "transactionId": "txn-123"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, gotReq)
		require.NotNil(t, gotReq.Method)
		assert.Equal(t, "cash", *gotReq.Method)
		assert.Equal(t, "PAID", gotReq.Status)
	})

	t.Run("body without method accepted", func(t *testing.T) {
		svc := &mockBookingService{
			updatePaymentFn: func(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error {
				assert.Nil(t, req.Method)
				return nil
			},
		}
		h := NewHandler(svc, nopLogger{})

		rec := doRequest(h, `{"status": "PAID"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		svc := &mockBookingService{
			updatePaymentFn: func(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error {
				t.Fatal("service must not be called")
				return nil
			},
		}
		h := NewHandler(svc, nopLogger{})

		rec := doRequest(h, `{"status": "PAID", "amount": 100}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
