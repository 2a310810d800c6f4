package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/database"
	"github.com/isdelr/account-api/internal/models"
	"github.com/isdelr/account-api/internal/services"
	"github.com/isdelr/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server *httptest.Server
	db     *sql.DB
	users  store.UserStore
}

// setupTestServer wires the full stack against an in-memory SQLite database,
// mimicking the setup in main.go.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	tokens, err := auth.NewJWTManager("test-secret")
	require.NoError(t, err)

	users := store.NewSQLiteUserStore(db)
	eventService := services.NewEventService(store.NewSQLiteEventStore(db))
	userService := services.NewUserService(users, tokens, eventService)

	srv := httptest.NewServer(NewRouter(tokens, userService, eventService, []string{"*"}))
	t.Cleanup(srv.Close)
	return &testServer{server: srv, db: db, users: users}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.server.URL+MountPath+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeMap(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

var ada = map[string]interface{}{
	"firstName": "Ada",
	"lastName":  "Lovelace",
	"email":     "ada@example.com",
	"password":  "secret1",
	"age":       36,
}

func (ts *testServer) signUpAndLogin(t *testing.T) string {
	t.Helper()
	resp, _ := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/Login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeMap(t, body)["Token"].(string)
}

func TestHome(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<h1>Hello</h1>", string(body))
}

func TestSignUp(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeMap(t, body)
	assert.EqualValues(t, 0, m["status"])
	data := m["data"].(map[string]interface{})
	assert.NotEmpty(t, data["_id"])
	assert.Equal(t, "ada@example.com", data["email"])
	assert.Equal(t, models.DefaultAvatar, data["avatar"])
	assert.Equal(t, "male", data["gender"])
	assert.EqualValues(t, 36, data["age"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "PasswordHash")

	stored, err := ts.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, auth.CheckPassword("secret1", stored.PasswordHash))
}

func TestSignUp_Duplicate(t *testing.T) {
	ts := setupTestServer(t)

	resp, _ := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, decodeMap(t, body)["status"])

	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "ada@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSignUp_PasswordTooLong(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/SignUp", "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": strings.Repeat("p", 80),
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	m := decodeMap(t, body)
	assert.EqualValues(t, -1, m["status"])
	errs := m["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].(map[string]interface{})["param"])
	assert.Equal(t, "Enter valid password", errs[0].(map[string]interface{})["msg"])

	_, err := ts.users.FindByEmail(context.Background(), "ada@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignUp_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/SignUp", "", map[string]string{
		"lastName": "Lovelace", "email": "ada@example.com", "password": "12345",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	m := decodeMap(t, body)
	assert.EqualValues(t, -1, m["status"])
	errs := m["errors"].([]interface{})
	require.Len(t, errs, 2)

	first := errs[0].(map[string]interface{})
	assert.Equal(t, "firstName", first["param"])
	assert.Equal(t, "Enter Valid fName", first["msg"])
	assert.Equal(t, "body", first["location"])
	assert.Equal(t, "password", errs[1].(map[string]interface{})["param"])
}

func TestSignUp_EmptyBody(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/SignUp", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Len(t, decodeMap(t, body)["errors"], 4)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/Login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeMap(t, body)
	assert.EqualValues(t, 0, m["status"])
	token := m["Token"].(string)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, resp.Header.Get(auth.TokenHeader))

	user := m["User"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"age":       float64(36),
		"email":     "ada@example.com",
	}, user)
}

func TestLogin_Failures(t *testing.T) {
	ts := setupTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/SignUp", "", ada)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tests := []struct {
		name       string
		body       map[string]string
		wantCode   int
		wantStatus int
	}{
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "nope"}, http.StatusBadRequest, 1},
		{"unknown email", map[string]string{"email": "bob@example.com", "password": "secret1"}, http.StatusBadRequest, 1},
		{"empty password", map[string]string{"email": "ada@example.com", "password": ""}, http.StatusNotFound, -1},
		{"empty email", map[string]string{"email": "", "password": "secret1"}, http.StatusNotFound, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/Login", "", tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.EqualValues(t, tt.wantStatus, decodeMap(t, body)["status"])
			assert.Empty(t, resp.Header.Get(auth.TokenHeader))
		})
	}
}

func TestProtectedRoutes_AccessDenied(t *testing.T) {
	ts := setupTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/changePassword"},
		{http.MethodPatch, "/updateUser"},
		{http.MethodGet, "/events"},
	}
	for _, rt := range routes {
		for _, token := range []string{"", "garbled.token.value"} {
			resp, body := ts.do(t, rt.method, rt.path, token, map[string]string{"firstName": "x"})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, rt.path)
			assert.Equal(t, "Access Denied", string(body), rt.path)
		}
	}

	// The server is still serving.
	resp, _ := ts.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signUpAndLogin(t)

	resp, body := ts.do(t, http.MethodPost, "/changePassword", token, map[string]string{"oldPassword": "bad", "newPassword": "newsecret"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Your password is wrong.", decodeMap(t, body)["msg"])

	resp, body = ts.do(t, http.MethodPost, "/changePassword", token, map[string]string{"oldPassword": "secret1", "newPassword": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password must be at least 6 characters long.", decodeMap(t, body)["msg"])

	resp, body = ts.do(t, http.MethodPost, "/changePassword", token, map[string]string{"oldPassword": "secret1", "newPassword": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password must be at most 72 bytes long.", decodeMap(t, body)["msg"])

	resp, body = ts.do(t, http.MethodPost, "/changePassword", token, map[string]string{"oldPassword": "secret1", "newPassword": "newsecret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated successfully.", decodeMap(t, body)["msg"])

	resp, _ = ts.do(t, http.MethodPost, "/Login", "", map[string]string{"email": "ada@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The old token is still accepted.
	resp, _ = ts.do(t, http.MethodPost, "/changePassword", token, map[string]string{"oldPassword": "newsecret", "newPassword": "newsecret2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateUser(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signUpAndLogin(t)

	resp, body := ts.do(t, http.MethodPatch, "/updateUser", token, map[string]interface{}{"lastName": "Hopper", "gender": "female", "age": 40})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please add your First Name.", decodeMap(t, body)["msg"])

	resp, body = ts.do(t, http.MethodPatch, "/updateUser", token, map[string]interface{}{"firstName": "Grace"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please add your Last Name.", decodeMap(t, body)["msg"])

	resp, body = ts.do(t, http.MethodPatch, "/updateUser", token, map[string]interface{}{"firstName": "Grace", "lastName": "Hopper"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Profile updated successfully.", decodeMap(t, body)["msg"])

	stored, err := ts.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.FirstName)
	assert.Equal(t, "Hopper", stored.LastName)
	assert.Empty(t, stored.Avatar)
	assert.Empty(t, stored.Gender)
	assert.Nil(t, stored.Age)
}

func TestEvents(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signUpAndLogin(t)

	resp, body := ts.do(t, http.MethodGet, "/events?limit=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []models.Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)

	resp, body = ts.do(t, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 2)

	types := []string{events[0].Type, events[1].Type}
	assert.ElementsMatch(t, []string{models.EventSignUp, models.EventLogin}, types)
}
