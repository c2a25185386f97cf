package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"mangapanel/pkg/database"
	"mangapanel/pkg/models"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "mangapanel-test",
		Duration: time.Hour,
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(":memory:")
	if err != nil {
		t.Fatalf("setup db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewRepo(db)
	handler := NewHandler(repo, testTokens())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, repo
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterMissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	cases := []map[string]string{
		{"email": "a@b.c", "name": "A"},
		{"email": "a@b.c", "password": "pw"},
		{"name": "A", "password": "pw"},
		{},
	}
	for _, payload := range cases {
		w := postJSON(t, router, "/api/register", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %v: got %d, want 400", payload, w.Code)
		}
	}
}

func TestRegisterDuplicateEmailKeepsOriginal(t *testing.T) {
	router, repo := setupRouter(t)

	first := map[string]string{"email": "dup@example.com", "name": "İlk", "password": "parola1"}
	if w := postJSON(t, router, "/api/register", first); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d %s", w.Code, w.Body.String())
	}

	second := map[string]string{"email": "dup@example.com", "name": "İkinci", "password": "parola2"}
	if w := postJSON(t, router, "/api/register", second); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got %d, want 409", w.Code)
	}

	u, err := repo.GetByEmail(context.Background(), "dup@example.com")
	if err != nil || u == nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Name != "İlk" {
		t.Errorf("original row mutated: name = %q", u.Name)
	}
}

func TestRegisterStorageFailureIs500(t *testing.T) {
	router, repo := setupRouter(t)

	// With the database gone, the duplicate pre-check must surface a 500
	// instead of falling through to the insert.
	repo.DB.Close()

	w := postJSON(t, router, "/api/register",
		map[string]string{"email": "x@example.com", "name": "X", "password": "pw"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", w.Code)
	}
}

func TestRegisterNeverEchoesPassword(t *testing.T) {
	router, _ := setupRouter(t)
	w := postJSON(t, router, "/api/register",
		map[string]string{"email": "p@example.com", "name": "P", "password": "gizli-parola"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("gizli-parola")) {
		t.Error("response echoes the password")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("$2a$")) {
		t.Error("response echoes the hash")
	}
}

func TestLoginNegativesIndistinguishable(t *testing.T) {
	router, repo := setupRouter(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("doğru-parola"), bcryptCost)
	if err := repo.CreateUser(context.Background(), models.User{
		ID:           "u-1",
		Email:        "var@example.com",
		Name:         "Var",
		PasswordHash: string(hash),
		Role:         models.RoleStandartKullanici,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// externally authenticated account, no password set
	if err := repo.CreateUser(context.Background(), models.User{
		ID:    "u-2",
		Email: "oauth@example.com",
		Name:  "OAuth",
		Role:  models.RoleStandartKullanici,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	negatives := []map[string]string{
		{"email": "yok@example.com", "password": "doğru-parola"},
		{"email": "var@example.com", "password": "yanlış-parola"},
		{"email": "oauth@example.com", "password": "herhangi"},
	}

	var bodies []string
	for _, payload := range negatives {
		w := postJSON(t, router, "/api/login", payload)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("payload %v: got %d, want 401", payload, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("negative responses differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestLoginIssuesTokenWithRoleClaim(t *testing.T) {
	router, repo := setupRouter(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("parola"), bcryptCost)
	if err := repo.CreateUser(context.Background(), models.User{
		ID:           "u-editor",
		Email:        "editor@example.com",
		Name:         "Editör",
		PasswordHash: string(hash),
		Role:         models.RoleEditor,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := postJSON(t, router, "/api/login",
		map[string]string{"email": "editor@example.com", "password": "parola"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string         `json:"token"`
		User  models.Profile `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.Role != models.RoleEditor {
		t.Errorf("profile role = %q", resp.User.Role)
	}

	claims, err := testTokens().Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != models.RoleEditor {
		t.Errorf("token role = %q, want EDITOR", claims.Role)
	}
	if claims.UserID != "u-editor" || claims.Email != "editor@example.com" {
		t.Errorf("token identity wrong: %+v", claims)
	}
}

func TestParseRejectsOldSchemaTokens(t *testing.T) {
	tokens := testTokens()
	u := &models.User{
		ID:    "u-1",
		Email: "a@example.com",
		Role:  models.RoleAdmin,
	}
	token, _, err := tokens.Sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Parse(token); err != nil {
		t.Fatalf("fresh token must parse: %v", err)
	}

	// A token signed with a different secret must be rejected outright.
	other := TokenService{Secret: []byte("other"), Issuer: tokens.Issuer, Duration: time.Hour}
	forged, _, err := other.Sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Parse(forged); err == nil {
		t.Error("token with wrong signature accepted")
	}
}

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		op   Operation
		role models.Role
		want bool
	}{
		{OpMangaCreate, models.RoleAdmin, true},
		{OpMangaCreate, models.RoleEditor, true},
		{OpMangaCreate, models.RoleKurucu, true},
		{OpMangaCreate, models.RoleModerator, false},
		{OpMangaCreate, models.RoleStandartKullanici, false},
		{OpMangaDelete, models.RoleEditor, false},
		{OpMangaDelete, models.RoleKurucu, true},
		{OpUserUpdate, models.RoleAdmin, true},
		{OpUserUpdate, models.RoleEditor, false},
		{OpUserDelete, models.RoleKurucu, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.op, tc.role); got != tc.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tc.op, tc.role, got, tc.want)
		}
	}
}

func TestVerify(t *testing.T) {
	_, repo := setupRouter(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("parola"), bcryptCost)
	if err := repo.CreateUser(context.Background(), models.User{
		ID:           "u-1",
		Email:        "v@example.com",
		Name:         "V",
		PasswordHash: string(hash),
		Role:         models.RoleStandartKullanici,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	v := Verifier{Repo: repo}

	u, err := v.Verify(context.Background(), "v@example.com", "parola")
	if err != nil || u == nil {
		t.Fatalf("valid pair rejected: %v", err)
	}
	if u.ID != "u-1" {
		t.Errorf("wrong identity: %s", u.ID)
	}

	for _, pair := range [][2]string{
		{"v@example.com", "yanlış"},
		{"yok@example.com", "parola"},
		{"", "parola"},
		{"v@example.com", ""},
	} {
		u, err := v.Verify(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Errorf("Verify(%q, _) errored: %v", pair[0], err)
		}
		if u != nil {
			t.Errorf("Verify(%q, _) returned an identity", pair[0])
		}
	}
}
