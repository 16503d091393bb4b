package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestListUsersExcludesPasswords(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, isactive FROM users ORDER BY id`)).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "name", "isactive"}).
				AddRow(1, "a@example.com", "A", true).
				AddRow(2, "b@example.com", "B", false),
		)

	router := gin.New()
	router.GET("/users", env.users.List)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	var out []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 users, got %d", len(out))
	}
	for _, user := range out {
		if _, leaked := user["password"]; leaked {
			t.Fatalf("password must never appear in responses")
		}
	}

	env.expectationsMet(t)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(`SELECT id, email, password, name, isactive FROM users WHERE id`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}))

	router := gin.New()
	router.GET("/users/:id", env.users.Get)

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	mustStatus(t, resp.Code, http.StatusNotFound)

	env.expectationsMet(t)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(`SELECT id, email, password, name, isactive FROM users WHERE id`).
		WithArgs(7).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}).
				AddRow(7, "old@example.com", "oldhash", "Old Name", true),
		)
	env.mock.
		ExpectExec(`UPDATE users SET email`).
		WithArgs("new@example.com", sqlmock.AnyArg(), "Old Name", true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	router := gin.New()
	router.PUT("/users/:id", env.users.Update)

	payload := `{"email":"New@example.com","password":"NewSecret1"}`
	req := httptest.NewRequest(http.MethodPut, "/users/7", newJSONBody(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out["email"] != "new@example.com" {
		t.Fatalf("expected updated email, got %#v", out["email"])
	}

	env.expectationsMet(t)
}

func TestDeleteUserSuccess(t *testing.T) {
	env := newTestEnv(t)

	env.mock.
		ExpectQuery(`SELECT id, email, password, name, isactive FROM users WHERE id`).
		WithArgs(7).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "password", "name", "isactive"}).
				AddRow(7, "a@example.com", "hash", "A", true),
		)
	env.mock.
		ExpectExec(`DELETE FROM users`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	router := gin.New()
	router.DELETE("/users/:id", env.users.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/users/7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	env.expectationsMet(t)
}
