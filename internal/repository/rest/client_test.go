package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, "service-token")
}

func ctxWithToken(t *testing.T, token string) context.Context {
	t.Helper()
	s, err := domain.NewSession(9, "Ana", "ana@ingride.test", domain.RoleEmployee, token)
	require.NoError(t, err)
	return security.WithSession(context.Background(), s)
}

func TestRentals_ListAllForwardsCallerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rentals", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":1,"plate":"AB123CD","client_id":4,"start_date":"2025-03-10","end_date":"2025-03-12","status":"RESERVED","daily_rate":"25000"}]`))
	})

	rentals, err := c.Rentals().ListAll(ctxWithToken(t, "user-token"))
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, "AB123CD", rentals[0].VehiclePlate)
	assert.Equal(t, utils.MustDate(2025, 3, 10), rentals[0].StartDate)
	assert.Equal(t, domain.RentalStatusReserved, rentals[0].Status)
	assert.True(t, decimal.NewFromInt(50000).Equal(rentals[0].Total()))
}

func TestClient_ServiceTokenWithoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Ping(context.Background()))
}

func TestClient_MintsServiceTokenPerRequest(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	minted := 0
	c.WithServiceTokenSource(func() (string, error) {
		minted++
		return fmt.Sprintf("minted-%d", minted), nil
	})

	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Ping(ctxWithToken(t, "user-token")))
	assert.Equal(t, []string{"Bearer minted-1", "Bearer minted-2", "Bearer user-token"}, seen)

	c.WithServiceTokenSource(func() (string, error) { return "", errors.New("no key") })
	err := c.Ping(context.Background())
	assert.ErrorContains(t, err, "failed to obtain service token")
}

func TestRentals_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AB123CD", body["plate"])
		assert.Equal(t, "2025-06-01", body["start_date"])
		assert.Equal(t, "2025-06-05", body["end_date"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":77,"plate":"AB123CD","client_id":4,"start_date":"2025-06-01","end_date":"2025-06-05","status":"RESERVED","daily_rate":100}`))
	})

	created, err := c.Rentals().Create(ctxWithToken(t, "tok"), domain.NewRental{
		VehiclePlate: "AB123CD",
		ClientID:     4,
		StartDate:    utils.MustDate(2025, 6, 1),
		EndDate:      utils.MustDate(2025, 6, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(created.DailyRate))
}

func TestRentals_TransitionRoutes(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	repo := c.Rentals()
	ctx := ctxWithToken(t, "tok")

	require.NoError(t, repo.Start(ctx, 1))
	require.NoError(t, repo.Complete(ctx, 2))
	require.NoError(t, repo.Cancel(ctx, 3))
	require.NoError(t, repo.Delete(ctx, 4))

	assert.Equal(t, []string{
		"PUT /rentals/1/start",
		"PUT /rentals/2/complete",
		"PUT /rentals/3/cancel",
		"DELETE /rentals/4",
	}, got)
}

func TestVehicles_ListAvailableReturnsVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vehicles/available", r.URL.Path)
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-06-05", r.URL.Query().Get("end"))
		w.Write([]byte(`[{"plate":"ZZ999ZZ","brand":"Fiat","model":"Cronos","daily_rate":"30000","status":"FREE"},{"plate":"AA111AA","brand":"Ford","model":"Ka","daily_rate":"20000","status":"FREE"}]`))
	})

	vehicles, err := c.Vehicles().ListAvailable(ctxWithToken(t, "tok"), utils.MustDate(2025, 6, 1), utils.MustDate(2025, 6, 5))
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "ZZ999ZZ", vehicles[0].Plate)
	assert.Equal(t, "AA111AA", vehicles[1].Plate)
}

func TestVehicles_ListAvailableEmptyIsNotNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})
	vehicles, err := c.Vehicles().ListAvailable(context.Background(), utils.MustDate(2025, 6, 1), utils.MustDate(2025, 6, 5))
	require.NoError(t, err)
	assert.NotNil(t, vehicles)
	assert.Empty(t, vehicles)
}

func TestClients_ListAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":4,"first_name":"María","last_name":"Gómez"}]`))
	})
	clients, err := c.Clients().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "María Gómez", clients[0].DisplayName())
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		target  error
		message string
	}{
		{"conflict", http.StatusConflict, `{"error":"La renta ya fue iniciada"}`, domain.ErrInvalidTransition, "La renta ya fue iniciada"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"message":"Fechas inválidas"}`, domain.ErrValidation, "Fechas inválidas"},
		{"not found", http.StatusNotFound, `{"error":"Renta no encontrada"}`, domain.ErrNotFound, "Renta no encontrada"},
		{"forbidden", http.StatusForbidden, ``, domain.ErrForbidden, "Forbidden"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"token vencido"}`, domain.ErrForbidden, "token vencido"},
		{"server error", http.StatusInternalServerError, `boom`, domain.ErrTransport, "boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			err := c.Rentals().Start(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Equal(t, tc.message, domain.MessageOf(err))
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, time.Second, "")

	_, err := c.Rentals().ListAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	_, err := c.Vehicles().ListAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}
