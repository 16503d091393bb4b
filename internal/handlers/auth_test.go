package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/Madhupal841998/book-rental/internal/utils"
)

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password, name, isactive)`)).
		WithArgs("user@example.com", sqlmock.AnyArg(), "Demo User", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))

	router := gin.New()
	router.POST("/auth/register", env.auth.Register)

	resp := postJSON(t, router, "/auth/register", map[string]string{
		"email":    "User@example.com",
		"name":     "Demo User",
		"password": "Secret123",
	})
	mustStatus(t, resp.Code, http.StatusCreated)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	user, _ := out["user"].(map[string]any)
	if user["email"] != "user@example.com" {
		t.Fatalf("expected lowercased email, got %#v", user["email"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must never appear in responses")
	}

	env.expectationsMet(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("user@example.com", sqlmock.AnyArg(), "Demo User", true).
		WillReturnError(&pq.Error{Code: "23505"})

	router := gin.New()
	router.POST("/auth/register", env.auth.Register)

	resp := postJSON(t, router, "/auth/register", map[string]string{
		"email":    "user@example.com",
		"name":     "Demo User",
		"password": "Secret123",
	})
	mustStatus(t, resp.Code, http.StatusConflict)

	env.expectationsMet(t)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	router := gin.New()
	router.POST("/auth/register", env.auth.Register)

	resp := postJSON(t, router, "/auth/register", map[string]string{"email": "user@example.com"})
	mustStatus(t, resp.Code, http.StatusBadRequest)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	hashed, err := utils.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	env.mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password, name, isactive FROM users WHERE lower(email) = lower($1)`)).
		WithArgs("user@example.com").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}).
				AddRow(101, "user@example.com", hashed, "Demo User", true),
		)

	router := gin.New()
	router.POST("/auth/login", env.auth.Login)

	resp := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "User@example.com",
		"password": "Secret123",
	})
	expectHTTP200(t, resp.Code)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if token, _ := out["token"].(string); token == "" {
		t.Fatalf("expected non-empty token")
	}

	env.expectationsMet(t)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	hashed, err := utils.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	env.mock.
		ExpectQuery(`SELECT id, email, password, name, isactive FROM users`).
		WithArgs("user@example.com").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}).
				AddRow(101, "user@example.com", hashed, "Demo User", true),
		)

	router := gin.New()
	router.POST("/auth/login", env.auth.Login)

	resp := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	})
	mustStatus(t, resp.Code, http.StatusUnauthorized)

	env.expectationsMet(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(`SELECT id, email, password, name, isactive FROM users`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}))

	router := gin.New()
	router.POST("/auth/login", env.auth.Login)

	resp := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "Secret123",
	})
	mustStatus(t, resp.Code, http.StatusUnauthorized)

	env.expectationsMet(t)
}
