package e2e_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_Auth_RegisterAndLogin(t *testing.T) {
	app := setupTestApp(t)
	defer app.cleanup(t)

	t.Run("complete auth flow", func(t *testing.T) {
		// 1. Register a new user
		registerReq := map[string]string{
			"email":      "Test@Example.com",
			"password":   "securePassword123",
			"first_name": "Test",
			"last_name":  "User",
		}

		resp, err := app.post("/auth/register", registerReq, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var registerResp map[string]any
		parseResponse(t, resp, &registerResp)
		assert.Equal(t, "test@example.com", registerResp["email"])
		assert.Equal(t, "Test", registerResp["first_name"])
		assert.NotEmpty(t, registerResp["id"])
		assert.NotContains(t, registerResp, "password_hash")

		// 2. Login with the registered user
		loginReq := map[string]string{
			"email":    "test@example.com",
			"password": "securePassword123",
		}

		resp, err = app.post("/auth/login", loginReq, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var loginResp map[string]any
		parseResponse(t, resp, &loginResp)
		assert.NotEmpty(t, loginResp["access_token"])
		assert.NotEmpty(t, loginResp["refresh_token"])
		assert.NotEmpty(t, loginResp["expires_at"])
		assert.Equal(t, "Bearer", loginResp["token_type"])

		loginUser := loginResp["user"].(map[string]any)
		assert.Equal(t, "test@example.com", loginUser["email"])

		accessToken := loginResp["access_token"].(string)
		refreshToken := loginResp["refresh_token"].(string)

		// 3. Access protected endpoint with token
		resp, err = app.get("/users/me", authHeader(accessToken))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		// 4. Refresh token
		resp, err = app.post("/auth/refresh", map[string]string{"refresh_token": refreshToken}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var refreshResp map[string]any
		parseResponse(t, resp, &refreshResp)
		newAccessToken := refreshResp["access_token"].(string)
		newRefreshToken := refreshResp["refresh_token"].(string)
		assert.NotEmpty(t, newAccessToken)
		assert.NotEqual(t, refreshToken, newRefreshToken)

		// 5. The rotated token cannot be used again
		resp, err = app.post("/auth/refresh", map[string]string{"refresh_token": refreshToken}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()

		// 6. Logout
		resp, err = app.post("/auth/logout", nil, authHeader(newAccessToken))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()

		// 7. Refresh tokens are revoked after logout
		resp, err = app.post("/auth/refresh", map[string]string{"refresh_token": newRefreshToken}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestE2E_Auth_InvalidCredentials(t *testing.T) {
	app := setupTestApp(t)
	defer app.cleanup(t)

	app.registerAndLogin(t, "known@example.com", "correctPassword1")

	var codes []string
	for _, creds := range []map[string]string{
		{"email": "known@example.com", "password": "wrongPassword1"},
		{"email": "unknown@example.com", "password": "correctPassword1"},
	} {
		resp, err := app.post("/auth/login", creds, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errResp map[string]any
		parseResponse(t, resp, &errResp)
		codes = append(codes, errResp["code"].(string))
	}

	assert.Equal(t, codes[0], codes[1])
}

func TestE2E_Auth_DuplicateRegistration(t *testing.T) {
	app := setupTestApp(t)
	defer app.cleanup(t)

	t.Run("sequential", func(t *testing.T) {
		app.registerAndLogin(t, "dup@example.com", "password123")

		resp, err := app.post("/auth/register", map[string]string{
			"email":    "DUP@example.com",
			"password": "password123",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()

		assert.Equal(t, 1, app.countUsers(t, "dup@example.com"))
	})

	t.Run("concurrent", func(t *testing.T) {
		const attempts = 8
		statuses := make([]int, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				resp, err := app.post("/auth/register", map[string]string{
					"email":    "race@example.com",
					"password": "password123",
				}, nil)
				if err != nil {
					return
				}
				statuses[i] = resp.StatusCode
				resp.Body.Close()
			}(i)
		}
		wg.Wait()

		created := 0
		for _, s := range statuses {
			if s == http.StatusCreated {
				created++
				continue
			}
			assert.Equal(t, http.StatusConflict, s)
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, app.countUsers(t, "race@example.com"))
	})
}

func TestE2E_Auth_ValidationErrors(t *testing.T) {
	app := setupTestApp(t)
	defer app.cleanup(t)

	resp, err := app.post("/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		StatusCode       int    `json:"status_code"`
		Code             string `json:"code"`
		Path             string `json:"path"`
		ValidationErrors []struct {
			Field string `json:"field"`
		} `json:"validation_errors"`
	}
	parseResponse(t, resp, &errResp)

	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Equal(t, "/api/v1/auth/register", errResp.Path)
	assert.Len(t, errResp.ValidationErrors, 2)
}
