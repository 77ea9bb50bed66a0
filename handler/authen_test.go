package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db)

	resp, parsed := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "admin12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
}

func TestLoginWrongPassword(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db)

	resp, _ := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginUnknownUsername(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db)

	resp, _ := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "nobody",
		"password": "admin12345",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginMissingInput(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db)

	_, parsed := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "admin12345",
	})
	refresh := dataOf(t, parsed)["refreshToken"].(string)

	resp, parsed := doRequest(t, app, "POST", "/api/v1/auth/refresh-token", "", map[string]interface{}{
		"refreshToken": refresh,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, dataOf(t, parsed)["accessToken"])
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db)

	_, parsed := doRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "admin12345",
	})
	access := dataOf(t, parsed)["accessToken"].(string)

	// access token hợp lệ nhưng thiếu claim refresh
	resp, _ := doRequest(t, app, "POST", "/api/v1/auth/refresh-token", "", map[string]interface{}{
		"refreshToken": access,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshTokenInvalid(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doRequest(t, app, "POST", "/api/v1/auth/refresh-token", "", map[string]interface{}{
		"refreshToken": "not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)

	resp, parsed := doRequest(t, app, "GET", "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.Equal(t, "admin", data["username"])
	// password không được trả ra ngoài
	_, leaked := data["password"]
	assert.False(t, leaked)
}
