package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/token"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
		"name":     "A",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "a@b.com", resp.User.Email)
	require.Equal(t, "A", resp.User.Name)
	require.NotEmpty(t, resp.User.ID)
	require.NotEmpty(t, resp.Token)

	// The token's subject is the registered user's id.
	sub, err := token.UserID(resp.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, sub)

	// The password hash never leaves the server.
	require.NotContains(t, rec.Body.String(), "secret1")

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "a@b.com").First(&stored).Error)
	require.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"password": "secret1", "name": "A"},
		{"email": "a@b.com", "name": "A"},
		{"email": "a@b.com", "password": "secret1"},
		{},
	}
	for _, payload := range cases {
		rec := env.doJSON(http.MethodPost, "/auth/register", payload, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing required fields", errorMessage(t, rec))
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register("a@b.com", "secret1", "A")

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":    "a@b.com",
		"password": "different",
		"name":     "B",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "User already exists", errorMessage(t, rec))

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("email = ?", "a@b.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register("a@b.com", "secret1", "A")

	rec := env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, userID, resp.User.ID)

	sub, err := token.UserID(resp.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, userID, sub)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register("a@b.com", "secret1", "A")

	// Wrong password and unknown email are indistinguishable.
	for _, payload := range []map[string]string{
		{"email": "a@b.com", "password": "wrong"},
		{"email": "nobody@b.com", "password": "secret1"},
	} {
		rec := env.doJSON(http.MethodPost, "/auth/login", payload, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid credentials", errorMessage(t, rec))
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/login", map[string]string{"email": "a@b.com"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email and password are required", errorMessage(t, rec))
}
