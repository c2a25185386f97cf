package users

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mangapanel/internal/auth"
	"mangapanel/pkg/database"
	"mangapanel/pkg/models"
)

var testTokens = auth.TokenService{
	Secret:   []byte("test-secret"),
	Issuer:   "mangapanel-test",
	Duration: time.Hour,
}

type fixture struct {
	router *gin.Engine
	db     *sql.DB
	repo   *auth.Repo
	admin  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(":memory:")
	if err != nil {
		t.Fatalf("setup db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := auth.NewRepo(db)
	handler := NewHandler(repo)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"), testTokens)

	f := &fixture{router: router, db: db, repo: repo}
	adminID := f.seedUser(t, "admin@example.com", models.RoleAdmin)
	f.admin = f.tokenFor(t, adminID, "admin@example.com", models.RoleAdmin)
	return f
}

func (f *fixture) seedUser(t *testing.T, email string, role models.Role) string {
	t.Helper()
	id := uuid.NewString()
	if err := f.repo.CreateUser(context.Background(), models.User{
		ID:    id,
		Email: email,
		Name:  "Test",
		Role:  role,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func (f *fixture) tokenFor(t *testing.T, id, email string, role models.Role) string {
	t.Helper()
	token, _, err := testTokens.Sign(&models.User{ID: id, Email: email, Role: role})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUserEndpointsAreAdminOnly(t *testing.T) {
	f := setup(t)

	// Even a moderator is locked out of user management.
	modID := f.seedUser(t, "mod@example.com", models.RoleModerator)
	mod := f.tokenFor(t, modID, "mod@example.com", models.RoleModerator)

	targetID := f.seedUser(t, "target@example.com", models.RoleStandartKullanici)

	requests := []struct {
		method, path string
		payload      any
	}{
		{http.MethodGet, "/api/admin/users", nil},
		{http.MethodGet, "/api/admin/users/" + targetID, nil},
		{http.MethodPatch, "/api/admin/users/" + targetID, map[string]string{"role": "ADMIN"}},
		{http.MethodDelete, "/api/admin/users/" + targetID, nil},
	}
	for _, r := range requests {
		if w := f.do(t, r.method, r.path, mod, r.payload); w.Code != http.StatusForbidden {
			t.Errorf("%s %s as moderator: got %d, want 403", r.method, r.path, w.Code)
		}
	}
}

func TestListUsersPaged(t *testing.T) {
	f := setup(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.seedUser(t, email, models.RoleStandartKullanici)
	}

	w := f.do(t, http.MethodGet, "/api/admin/users?page=1&limit=2", f.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Users      []models.Profile `json:"users"`
		Total      int              `json:"total"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// 3 seeded + the admin
	if resp.Total != 4 || resp.TotalPages != 2 || len(resp.Users) != 2 {
		t.Errorf("total=%d totalPages=%d len=%d, want 4/2/2", resp.Total, resp.TotalPages, len(resp.Users))
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Error("user listing leaks password fields")
	}
}

func TestUpdateRoleAcceptsFullEnum(t *testing.T) {
	f := setup(t)
	targetID := f.seedUser(t, "cevirmen@example.com", models.RoleStandartKullanici)

	for _, role := range models.AllRoles {
		w := f.do(t, http.MethodPatch, "/api/admin/users/"+targetID,
			f.admin, map[string]string{"role": string(role)})
		if w.Code != http.StatusOK {
			t.Errorf("role %s: got %d, want 200", role, w.Code)
			continue
		}
		var p models.Profile
		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if p.Role != role {
			t.Errorf("role = %q, want %q", p.Role, role)
		}
	}
}

func TestUpdateRoleRejectsUnknownWithoutMutation(t *testing.T) {
	f := setup(t)
	targetID := f.seedUser(t, "sabit@example.com", models.RoleCevirmen)

	w := f.do(t, http.MethodPatch, "/api/admin/users/"+targetID,
		f.admin, map[string]string{"role": "SUPER_DUPER_ADMIN"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}

	u, err := f.repo.GetByID(context.Background(), targetID)
	if err != nil || u == nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Role != models.RoleCevirmen {
		t.Errorf("role mutated to %q", u.Role)
	}
}

func TestUpdateRoleNotFound(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodPatch, "/api/admin/users/"+uuid.NewString(),
		f.admin, map[string]string{"role": "ADMIN"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	f := setup(t)
	targetID := f.seedUser(t, "gidecek@example.com", models.RoleStandartKullanici)

	if w := f.do(t, http.MethodDelete, "/api/admin/users/"+targetID, f.admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}

	u, err := f.repo.GetByID(context.Background(), targetID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u != nil {
		t.Error("user still present after delete")
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	f := setup(t)

	u, err := f.repo.GetByEmail(context.Background(), "admin@example.com")
	if err != nil || u == nil {
		t.Fatalf("lookup admin: %v", err)
	}

	if w := f.do(t, http.MethodDelete, "/api/admin/users/"+u.ID, f.admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("self delete: got %d, want 400", w.Code)
	}
}
