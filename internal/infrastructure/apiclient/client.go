// Package apiclient cliente HTTP del API del CRM: descarga de colecciones, mutaciones y
// el stream SSE de cambios. Implementa screens.Source y livelist.Subscriber.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jhoicas/joyeria-crm/internal/application/dto"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

// ErrNotAuthenticated se llamó al API antes de Login.
var ErrNotAuthenticated = errors.New("apiclient: sin sesión")

// Config parámetros del cliente.
type Config struct {
	BaseURL        string        // ej. http://localhost:8080/api
	Timeout        time.Duration // por petición; 0 = 15s
	ReconnectDelay time.Duration // espera entre reconexiones del stream; 0 = 2s
}

// Client no reintenta: una mutación fallida se reporta y la lista queda como estaba.
type Client struct {
	http   *resty.Client
	stream *resty.Client // sin timeout, para SSE
	cfg    Config
	log    zerolog.Logger

	mu    sync.RWMutex
	token string
	user  *scope.User
}

// New construye el cliente con transporte instrumentado con OpenTelemetry.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	transport := otelhttp.NewTransport(http.DefaultTransport)

	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetTransport(transport).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	stream := resty.New().
		SetBaseURL(base).
		SetTransport(transport).
		SetHeader("Accept", "text/event-stream").
		SetHeader("Cache-Control", "no-cache")

	return &Client{
		http:   httpClient,
		stream: stream,
		cfg:    cfg,
		log:    log.With().Str("component", "apiclient").Logger(),
	}
}

// Login inicia sesión y guarda el token y la identidad para el Scope Resolver.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.LoginRequest{Email: email, Password: password}).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		var apiErr dto.ErrorResponse
		_ = json.Unmarshal(resp.Body(), &apiErr)
		return nil, fmt.Errorf("login: HTTP %d %s: %s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}
	var out dto.LoginResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("login: respuesta ilegible: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login: respuesta sin token")
	}
	c.SetSession(out.Token, userFrom(out.User))
	c.log.Info().Str("user_id", out.User.ID).Str("role", out.User.Role).Msg("sesión iniciada")
	return &out, nil
}

// SetSession fija token e identidad (p. ej. un token de servicio).
func (c *Client) SetSession(token string, user *scope.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
}

// User identidad de la sesión; nil sin login.
func (c *Client) User() *scope.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Client) request(ctx context.Context, client *resty.Client) (*resty.Request, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return client.R().SetContext(ctx).SetAuthToken(token), nil
}

func userFrom(u dto.UserResponse) *scope.User {
	out := &scope.User{ID: u.ID, Role: u.Role, TenantID: u.TenantID, Floor: u.Floor}
	if u.StoreID != nil {
		out.StoreID = *u.StoreID
	}
	return out
}

// Fetcher descarga la colección con el filtro como query string y devuelve el cuerpo crudo.
func (c *Client) Fetcher(path string) livelist.FetchFunc {
	return func(ctx context.Context, filter livelist.Filter) ([]byte, error) {
		req, err := c.request(ctx, c.http)
		if err != nil {
			return nil, err
		}
		resp, err := req.SetQueryParamsFromValues(filter.Values()).Get(collection(path))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode())
		}
		return resp.Body(), nil
	}
}

// Create POST /<path>.
func (c *Client) Create(ctx context.Context, path string, body any) (livelist.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, collection(path), body)
}

// Update PUT /<path>/<id>.
func (c *Client) Update(ctx context.Context, path, id string, body any) (livelist.MutationResult, error) {
	return c.mutate(ctx, http.MethodPut, collection(path)+"/"+id, body)
}

// Delete DELETE /<path>/<id>.
func (c *Client) Delete(ctx context.Context, path, id string) (livelist.MutationResult, error) {
	return c.mutate(ctx, http.MethodDelete, collection(path)+"/"+id, nil)
}

// Transition PATCH /<path>/<id>/<action> con {"<field>": value}.
func (c *Client) Transition(ctx context.Context, path, id, action, field, value string) (livelist.MutationResult, error) {
	return c.mutate(ctx, http.MethodPatch, collection(path)+"/"+id+"/"+action, map[string]string{field: value})
}

// mutate un 4xx es un rechazo del API (Success=false con su mensaje); red y 5xx son error.
func (c *Client) mutate(ctx context.Context, method, url string, body any) (livelist.MutationResult, error) {
	req, err := c.request(ctx, c.http)
	if err != nil {
		return livelist.MutationResult{}, err
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return livelist.MutationResult{}, err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return livelist.MutationResult{}, fmt.Errorf("%s %s: HTTP %d", method, url, resp.StatusCode())
	}
	return decodeMutation(resp.StatusCode(), resp.Body()), nil
}

func decodeMutation(status int, body []byte) livelist.MutationResult {
	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
	}
	_ = json.Unmarshal(body, &envelope)

	ok := status < http.StatusBadRequest
	if envelope.Success != nil {
		ok = ok && *envelope.Success
	}
	res := livelist.MutationResult{Success: ok, Data: envelope.Data, Message: envelope.Message}
	if !ok && res.Message == "" {
		res.Message = envelope.Code
		if res.Message == "" {
			res.Message = http.StatusText(status)
		}
	}
	return res
}

func collection(path string) string {
	return "/" + strings.Trim(path, "/")
}
