package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type errorBody struct {
	Error string `json:"error"`
}

// API is a thin typed wrapper over the catalog's HTTP endpoints.
type API struct {
	http *resty.Client
}

func NewAPI(baseURL string) *API {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &API{http: c}
}

// apiErr surfaces the server's error text verbatim, falling back to the
// given message when no body was decoded.
func apiErr(resp *resty.Response, fallback string) error {
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		return errors.New(body.Error)
	}
	return errors.New(fallback)
}

func (a *API) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out AuthResult
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password, "name": name}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Registration failed")
	}
	return &out, nil
}

func (a *API) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Login failed")
	}
	return &out, nil
}

func (a *API) Products(ctx context.Context, token string) ([]Product, error) {
	var out []Product
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/products")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Failed to fetch products")
	}
	return out, nil
}

type SearchResult struct {
	Total    int64     `json:"total"`
	Products []Product `json:"products"`
}

func (a *API) SearchProducts(ctx context.Context, token, query string) (*SearchResult, error) {
	var out SearchResult
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("q", query).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/products/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Search failed")
	}
	return &out, nil
}

func (a *API) CreateProduct(ctx context.Context, token string, in ProductInput) (*Product, error) {
	var out Product
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(in).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/products")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Failed to create product")
	}
	return &out, nil
}

func (a *API) UpdateProduct(ctx context.Context, token, id string, in ProductInput) (*Product, error) {
	var out Product
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(in).
		SetResult(&out).
		SetError(&errorBody{}).
		Put(fmt.Sprintf("/products/%s", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp, "Failed to update product")
	}
	return &out, nil
}

func (a *API) DeleteProduct(ctx context.Context, token, id string) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&errorBody{}).
		Delete(fmt.Sprintf("/products/%s", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiErr(resp, "Failed to delete product")
	}
	return nil
}
