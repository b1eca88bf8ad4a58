package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aruanda-service/internal/auth"
	"aruanda-service/internal/middleware"
	"aruanda-service/internal/model"
	"aruanda-service/internal/store"
	"aruanda-service/pkg/config"
	"aruanda-service/pkg/jwtutil"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*echo.Echo, store.Store) {
	t.Helper()
	st, err := store.NewMemoryStore("", nil)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	cfg := &config.Config{
		MasterAdmin: config.MasterAdminConfig{
			Name:     "Administrador Master",
			Email:    "admin@gestaoaruanda.com.br",
			Password: "123@mudar",
		},
		JWT: config.JWTConfig{
			SigningKey:          "test-signing-key",
			ExpirationHours:     1,
			RememberMeExpiHours: 2,
		},
	}
	jwtutil.Initialize(&cfg.JWT)

	h := New(auth.NewService(st, cfg, nil), st, cfg)
	e := echo.New()
	e.POST("/auth/login", h.Login)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/reset-password", h.ResetPassword)
	e.GET("/auth/temples", h.SelectableTemples)

	api := e.Group("/api", middleware.AuthMiddleware)
	api.GET("/users/profile", h.GetProfile)
	api.GET("/temples", h.ListTemples)
	api.GET("/temples/:id", h.GetTemple)
	api.POST("/temples", h.CreateTemple)
	api.DELETE("/temples/:id", h.DeleteTemple)
	scoped := api.Group("", middleware.RequireTempleContext)
	scoped.GET("/mediums", h.ListMediums)
	scoped.POST("/mediums", h.CreateMedium)
	scoped.PUT("/mediums/:id", h.UpdateMedium)
	return e, st
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedActiveUser(t *testing.T, st store.Store, templeID, email, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u := &model.User{Name: "Maria", Email: email, Password: string(hashed), Role: model.RoleUser, TempleID: templeID, Active: true}
	if err := st.CreateUser(u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func loginToken(t *testing.T, e *echo.Echo, body string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login response missing token")
	}
	return resp.Token
}

func TestLoginEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	temple := &model.Temple{Name: "Templo A", Status: model.StatusActive}
	if err := st.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	seedActiveUser(t, st, temple.ID, "maria@example.com", "secret")

	body := `{"email":"maria@example.com","password":"secret","temple_id":"` + temple.ID + `"}`
	rec := doJSON(e, http.MethodPost, "/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token  string       `json:"token"`
		User   model.User   `json:"user"`
		Temple model.Temple `json:"temple"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Email != "maria@example.com" {
		t.Errorf("unexpected user %q", resp.User.Email)
	}
	if resp.Temple.ID != temple.ID {
		t.Errorf("unexpected temple %q", resp.Temple.ID)
	}

	claims, err := jwtutil.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.TempleID != temple.ID || claims.Role != model.RoleUser {
		t.Errorf("claims mismatch: %+v", claims)
	}

	// The password hash never leaves the service.
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks password field")
	}
}

func TestLoginEndpointStatuses(t *testing.T) {
	e, st := newTestServer(t)
	active := &model.Temple{Name: "Templo A", Status: model.StatusActive}
	inactive := &model.Temple{Name: "Templo B", Status: model.StatusInactive}
	for _, temple := range []*model.Temple{active, inactive} {
		if err := st.CreateTemple(temple); err != nil {
			t.Fatalf("CreateTemple: %v", err)
		}
	}
	seedActiveUser(t, st, active.ID, "maria@example.com", "secret")

	pendingHash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	pending := &model.User{Name: "Pendente", Email: "pending@example.com", Password: string(pendingHash), Role: model.RoleUser, TempleID: active.ID, Active: false}
	if err := st.CreateUser(pending); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing temple", `{"email":"maria@example.com","password":"secret"}`, http.StatusBadRequest},
		{"unknown temple", `{"email":"maria@example.com","password":"secret","temple_id":"nope"}`, http.StatusNotFound},
		{"inactive temple", `{"email":"maria@example.com","password":"secret","temple_id":"` + inactive.ID + `"}`, http.StatusForbidden},
		{"wrong password", `{"email":"maria@example.com","password":"nope","temple_id":"` + active.ID + `"}`, http.StatusUnauthorized},
		{"pending approval", `{"email":"pending@example.com","password":"secret","temple_id":"` + active.ID + `"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/auth/login", tt.body, "")
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegisterEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	temple := &model.Temple{Name: "Templo A", Status: model.StatusActive}
	if err := st.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}

	body := `{"name":"Maria","email":"maria@example.com","password":"secret","temple_id":"` + temple.ID + `"}`
	rec := doJSON(e, http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"token"`) {
		t.Error("registration must not issue a session token")
	}

	// Duplicate email conflicts.
	rec = doJSON(e, http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate email, got %d", rec.Code)
	}

	// Incomplete payload.
	rec = doJSON(e, http.MethodPost, "/auth/register", `{"email":"x@example.com"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on incomplete payload, got %d", rec.Code)
	}
}

func TestSelectableTemplesEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	if err := st.CreateTemple(&model.Temple{Name: "Ativo", Status: model.StatusActive}); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	if err := st.CreateTemple(&model.Temple{Name: "Inativo", Status: model.StatusInactive}); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/auth/temples", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var temples []model.Temple
	if err := json.Unmarshal(rec.Body.Bytes(), &temples); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(temples) != 1 || temples[0].Name != "Ativo" {
		t.Errorf("expected only the active temple, got %+v", temples)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/users/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestMasterAdminBlockedFromTempleScopedRoutes(t *testing.T) {
	e, _ := newTestServer(t)
	token := loginToken(t, e, `{"email":"admin@gestaoaruanda.com.br","password":"123@mudar"}`)

	rec := doJSON(e, http.MethodGet, "/api/mediums", "", token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("tenant-less session on scoped route: expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	// The master profile comes from the session, not the directory.
	rec = doJSON(e, http.MethodGet, "/api/users/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("master profile: expected 200, got %d", rec.Code)
	}
	var profile map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile["id"] != auth.MasterAdminID {
		t.Errorf("expected synthetic master profile, got %+v", profile)
	}
}

func TestMediumEndpointsScopeToSessionTemple(t *testing.T) {
	e, st := newTestServer(t)
	templeA := &model.Temple{Name: "Templo A", Status: model.StatusActive}
	templeB := &model.Temple{Name: "Templo B", Status: model.StatusActive}
	for _, temple := range []*model.Temple{templeA, templeB} {
		if err := st.CreateTemple(temple); err != nil {
			t.Fatalf("CreateTemple: %v", err)
		}
	}
	seedActiveUser(t, st, templeA.ID, "maria@example.com", "secret")
	token := loginToken(t, e, `{"email":"maria@example.com","password":"secret","temple_id":"`+templeA.ID+`"}`)

	// Payload naming another temple is overridden by the session.
	body := `{"name":"João","category":"passista","temple_id":"` + templeB.ID + `"}`
	rec := doJSON(e, http.MethodPost, "/api/mediums", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create medium: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Medium
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode medium: %v", err)
	}
	if created.TempleID != templeA.ID {
		t.Errorf("medium scoped to %q, want session temple %q", created.TempleID, templeA.ID)
	}

	// Rows of other temples are invisible.
	other := &model.Medium{TempleID: templeB.ID, Name: "Outro"}
	if err := st.CreateMedium(other); err != nil {
		t.Fatalf("CreateMedium: %v", err)
	}
	rec = doJSON(e, http.MethodGet, "/api/mediums", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list mediums: expected 200, got %d", rec.Code)
	}
	var rows []model.Medium
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != created.ID {
		t.Errorf("expected only own temple's medium, got %+v", rows)
	}
}

func TestUpdateMediumMergesPartialPayload(t *testing.T) {
	e, st := newTestServer(t)
	temple := &model.Temple{Name: "Templo A", Status: model.StatusActive}
	if err := st.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	seedActiveUser(t, st, temple.ID, "maria@example.com", "secret")
	token := loginToken(t, e, `{"email":"maria@example.com","password":"secret","temple_id":"`+temple.ID+`"}`)

	medium := &model.Medium{TempleID: temple.ID, Name: "João", Phone: "1111", Category: model.CategoryPassista, Status: model.StatusActive}
	if err := st.CreateMedium(medium); err != nil {
		t.Fatalf("CreateMedium: %v", err)
	}

	rec := doJSON(e, http.MethodPut, "/api/mediums/"+medium.ID, `{"phone":"2222"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got, err := st.GetMedium(temple.ID, medium.ID)
	if err != nil {
		t.Fatalf("GetMedium: %v", err)
	}
	if got.Phone != "2222" {
		t.Errorf("phone not applied: %q", got.Phone)
	}
	if got.Name != "João" || got.Category != model.CategoryPassista {
		t.Errorf("absent fields must survive the merge: %+v", got)
	}
}

func TestGetTempleScopedToSessionTemple(t *testing.T) {
	e, st := newTestServer(t)
	own := &model.Temple{Name: "Templo Próprio", Status: model.StatusActive}
	other := &model.Temple{Name: "Templo Alheio", Status: model.StatusInactive}
	for _, temple := range []*model.Temple{own, other} {
		if err := st.CreateTemple(temple); err != nil {
			t.Fatalf("CreateTemple: %v", err)
		}
	}
	seedActiveUser(t, st, own.ID, "maria@example.com", "secret")
	token := loginToken(t, e, `{"email":"maria@example.com","password":"secret","temple_id":"`+own.ID+`"}`)

	rec := doJSON(e, http.MethodGet, "/api/temples/"+own.ID, "", token)
	if rec.Code != http.StatusOK {
		t.Errorf("own temple: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Other tenants' rows, inactive ones included, stay invisible.
	rec = doJSON(e, http.MethodGet, "/api/temples/"+other.ID, "", token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign temple: expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	master := loginToken(t, e, `{"email":"admin@gestaoaruanda.com.br","password":"123@mudar"}`)
	rec = doJSON(e, http.MethodGet, "/api/temples/"+other.ID, "", master)
	if rec.Code != http.StatusOK {
		t.Errorf("master view: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTempleMutationsRefreshActiveGauge(t *testing.T) {
	e, _ := newTestServer(t)
	master := loginToken(t, e, `{"email":"admin@gestaoaruanda.com.br","password":"123@mudar"}`)

	rec := doJSON(e, http.MethodPost, "/api/temples", `{"name":"Templo A"}`, master)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(prometheus.ActiveTemplesGauge); got != 1 {
		t.Errorf("gauge after first create = %v, want 1", got)
	}

	rec = doJSON(e, http.MethodPost, "/api/temples", `{"name":"Templo B"}`, master)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(prometheus.ActiveTemplesGauge); got != 2 {
		t.Errorf("gauge after second create = %v, want 2", got)
	}

	var created model.Temple
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode temple: %v", err)
	}
	rec = doJSON(e, http.MethodDelete, "/api/temples/"+created.ID, "", master)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(prometheus.ActiveTemplesGauge); got != 1 {
		t.Errorf("gauge after delete = %v, want 1", got)
	}
}
