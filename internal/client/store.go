package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotLoggedIn = errors.New("not logged in")

// State is the client's observable state, the explicit counterpart of the
// UI's store: who is logged in, their token, the loaded product list, and
// the last error text as the server reported it.
type State struct {
	User     *User
	Token    string
	Products []Product
	Loading  bool
	Err      string
}

// persistedState is the serialization boundary: only the identity survives
// a restart. Products and transient flags are never written to disk.
type persistedState struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Store drives the API and keeps State current. It is meant for
// single-threaded, event-driven use; the mutex only guards snapshots.
type Store struct {
	api  *API
	path string

	mu    sync.Mutex
	state State
}

func NewStore(api *API, statePath string) *Store {
	return &Store{api: api, path: statePath}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Products = append([]Product(nil), s.state.Products...)
	return st
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Err = err.Error()
	s.mu.Unlock()
	return err
}

func (s *Store) Register(ctx context.Context, email, password, name string) error {
	s.setLoading()
	res, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.User = &res.User
	s.state.Token = res.Token
	s.state.Loading = false
	s.mu.Unlock()
	return s.Save()
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading()
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.User = &res.User
	s.state.Token = res.Token
	s.state.Loading = false
	s.mu.Unlock()
	return s.Save()
}

func (s *Store) Logout() error {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	return s.Save()
}

func (s *Store) token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return "", ErrNotLoggedIn
	}
	return s.state.Token, nil
}

func (s *Store) FetchProducts(ctx context.Context) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	s.setLoading()

	products, err := s.api.Products(ctx, tok)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.Products = products
	s.state.Loading = false
	s.mu.Unlock()
	return nil
}

// Search queries the server directly; results are returned, not kept in
// the product list.
func (s *Store) Search(ctx context.Context, query string) (*SearchResult, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	s.setLoading()

	res, err := s.api.SearchProducts(ctx, tok, query)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.Loading = false
	s.mu.Unlock()
	return res, nil
}

func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	s.setLoading()

	prod, err := s.api.CreateProduct(ctx, tok, in)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.state.Products = append(s.state.Products, *prod)
	s.state.Loading = false
	s.mu.Unlock()
	return prod, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	s.setLoading()

	prod, err := s.api.UpdateProduct(ctx, tok, id, in)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			s.state.Products[i] = *prod
		}
	}
	s.state.Loading = false
	s.mu.Unlock()
	return prod, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	s.setLoading()

	if err := s.api.DeleteProduct(ctx, tok, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	kept := s.state.Products[:0]
	for _, p := range s.state.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.state.Products = kept
	s.state.Loading = false
	s.mu.Unlock()
	return nil
}

// Save writes the persisted part of the state to the state file.
func (s *Store) Save() error {
	s.mu.Lock()
	p := persistedState{User: s.state.User, Token: s.state.Token}
	s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load restores user and token from the state file. A missing file is not
// an error: the store simply starts logged out.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.User = p.User
	s.state.Token = p.Token
	s.mu.Unlock()
	return nil
}
