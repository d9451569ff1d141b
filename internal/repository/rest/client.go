// Package rest talks to the IngRide REST API on behalf of the console caller.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
)

const serviceName = "ingride-api"

// Client is the HTTP/JSON backend. The caller's bearer token travels in ctx;
// the service token is used only when ctx carries no session.
type Client struct {
	baseURL      string
	http         *http.Client
	serviceToken string
	mintToken    func() (string, error)
}

func NewClient(baseURL string, timeout time.Duration, serviceToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		serviceToken: serviceToken,
	}
}

// WithServiceTokenSource makes the client mint a fresh service token for every
// session-less request instead of sending a fixed one
func (c *Client) WithServiceTokenSource(mint func() (string, error)) *Client {
	c.mintToken = mint
	return c
}

var _ repository.Backend = (*Client)(nil)

func (c *Client) Rentals() repository.RentalRepository {
	return &rentalRepository{c: c}
}

func (c *Client) Vehicles() repository.VehicleRepository {
	return &vehicleRepository{c: c}
}

func (c *Client) Clients() repository.ClientRepository {
	return &clientRepository{c: c}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	op := method + " " + path
	logger.ExternalServiceCall(ctx, serviceName, op)
	defer func() {
		logger.ExternalServiceResult(ctx, serviceName, op, err)
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.tokenFor(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain service token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return domain.NewTransportError("backend unreachable", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.NewTransportError("failed to read backend response", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return statusError(res.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewTransportError("malformed backend response", err)
	}
	return nil
}

func (c *Client) tokenFor(ctx context.Context) (string, error) {
	if token := security.TokenFromContext(ctx); token != "" {
		return token, nil
	}
	if c.mintToken != nil {
		return c.mintToken()
	}
	return c.serviceToken, nil
}

// statusError keeps the backend's own message so it can be shown verbatim
func statusError(code int, raw []byte) error {
	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		if eb.Message != "" {
			msg = eb.Message
		} else if eb.Error != "" {
			msg = eb.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch code {
	case http.StatusConflict:
		return domain.NewInvalidTransitionError(msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.DomainError{Code: domain.ErrCodeValidation, Message: msg}
	case http.StatusNotFound:
		return domain.NewNotFoundError(msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError(msg)
	default:
		return domain.NewTransportError(msg, fmt.Errorf("backend returned status %d", code))
	}
}
