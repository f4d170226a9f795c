package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/stationeryhub/internal/config"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL        = "http://localhost:5000"
	defaultProbeTimeout   = 5 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

var (
	ErrRequestFailed   = errors.New("backend request failed")
	ErrResponseInvalid = errors.New("backend response invalid")
	ErrNotLoggedIn     = errors.New("admin token missing")
)

// APIError 后端返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Product 旧版接口商品
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       *int            `json:"stock,omitempty"`
}

// ProductInput 新增/修改商品请求
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       *int            `json:"stock,omitempty"`
}

// OrderItem 旧版接口订单项
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order 旧版接口订单
type Order struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	DeliveryArea string          `json:"deliveryArea"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"createdAt"`
}

// AdminSession 管理员登录结果
type AdminSession struct {
	Token string `json:"token"`
	Admin struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"admin"`
	ExpiresAt string `json:"expiresAt"`
}

// Client 旧版后端接口客户端
type Client struct {
	baseURL      string
	http         *http.Client
	probeTimeout time.Duration

	mu    sync.RWMutex
	token string
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken 预置管理员 Token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithProbeTimeout 设置连通性探测超时
func WithProbeTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.probeTimeout = timeout
		}
	}
}

// New 创建客户端
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: defaultRequestTimeout},
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig 按 backend 配置创建客户端
func NewFromConfig(cfg config.BackendConfig, opts ...Option) *Client {
	base := []Option{}
	if cfg.RequestTimeout > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	}
	if cfg.ProbeTimeout > 0 {
		base = append(base, WithProbeTimeout(cfg.ProbeTimeout))
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}

// BaseURL 后端地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token 当前管理员 Token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken 设置管理员 Token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Ping 以 HEAD /admin/login 探测后端，2xx 或 405 视为在线
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/admin/login", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusMethodNotAllowed || (resp.StatusCode >= 200 && resp.StatusCode < 300)
}

// ListProducts GET /product/get
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/product/get", nil, false, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	return out.Products, nil
}

// CreateProduct POST /product/add
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var out struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/product/add", input, true, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// UpdateProduct PUT /product/update/:id
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error) {
	var out struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPut, "/product/update/"+url.PathEscape(id), input, true, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// DeleteProduct DELETE /product/delete/:id
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/delete/"+url.PathEscape(id), nil, true, nil)
}

// AdminLogin POST /admin/login，成功后保存 Token
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*AdminSession, error) {
	var out AdminSession
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, false, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: token missing", ErrResponseInvalid)
	}
	c.SetToken(out.Token)
	return &out, nil
}

// ListOrders GET /admin/orders，status 为空时返回全部
func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	path := "/admin/orders"
	if status = strings.TrimSpace(status); status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return nil, err
	}
	if out.Orders == nil {
		out.Orders = []Order{}
	}
	return out.Orders, nil
}

// UpdateOrderStatus PUT /admin/orders/:id/status
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	var out struct {
		Order *Order `json:"order"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/admin/orders/"+url.PathEscape(id)+"/status", body, true, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, auth bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}
