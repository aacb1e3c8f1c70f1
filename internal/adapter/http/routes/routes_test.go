package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"client_portal/internal/adapter/http/middleware"
	"client_portal/internal/config"
	"client_portal/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

func memoryConfig() config.Config {
	return config.Config{
		JWTSecret:           "route-secret",
		RequestTimeout:      10 * time.Second,
		PersistenceBackend:  "memory",
		SequenceBackend:     "memory",
		StorageBackend:      "memory",
		NotificationBackend: "log",
		PaymentGatewayMock:  true,
		Currency:            "BRL",
		SideEffectTimeout:   5 * time.Second,
		BrandName:           "Studio",
	}
}

func newTestServer(t *testing.T) (*gin.Engine, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig()
	cfg.ProjectsSeedFile = writeSeed(t, `[{"id":"p1","owner_id":"user-1","name":"Website","amount":2500,
		"client":{"name":"Ana","email":"ana@example.com"}}]`)
	c, err := buildComponents(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build components: %v", err)
	}
	t.Cleanup(c.Close)

	r := gin.New()
	getRoutes(r, cfg, c)
	return r, cfg
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestBuildComponents_MemoryProjectsSeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.ProjectsSeedFile = writeSeed(t, `[{"id":"p9","owner_id":"user-9","name":"Shop","amount":40}]`)
	c, err := buildComponents(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build components: %v", err)
	}
	defer c.Close()

	p, err := c.projects.GetByID(context.Background(), "p9")
	if err != nil || p.OwnerID != "user-9" || p.Amount != 40 {
		t.Fatalf("seeded project not served: %+v %v", p, err)
	}

	cfg.ProjectsSeedFile = writeSeed(t, `{"id":"p9"}`)
	if _, err := buildComponents(context.Background(), cfg); err == nil {
		t.Fatal("expected error for malformed seed")
	}
}

func bearer(t *testing.T, cfg config.Config, actor entities.Actor) string {
	t.Helper()
	token, err := middleware.IssueToken(actor, []byte(cfg.JWTSecret), nil)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, auth string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signatureDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	for x := 0; x < 200; x++ {
		img.Set(x, 30, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRoutes_Ping(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/v1/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRoutes_RequireAuth(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(r, http.MethodPost, "/v1/projects/p1/quote", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRoutes_QuoteLifecycle(t *testing.T) {
	r, cfg := newTestServer(t)
	owner := bearer(t, cfg, entities.Actor{ID: "user-1", Role: entities.RoleClient})
	stranger := bearer(t, cfg, entities.Actor{ID: "user-2", Role: entities.RoleClient})

	w := do(r, http.MethodPost, "/v1/projects/p1/quote", owner, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("generate: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Quote struct {
			QuoteID       string `json:"quote_id"`
			DisplayNumber string `json:"display_number"`
		} `json:"quote"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Quote.DisplayNumber != "000001" {
		t.Fatalf("unexpected first quote %s", w.Body.String())
	}
	quotePath := "/v1/quotes/" + created.Quote.QuoteID

	if w := do(r, http.MethodGet, quotePath, stranger, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/v1/projects/p1/quote", owner, nil); w.Code != http.StatusOK {
		t.Fatalf("resend: expected 200, got %d", w.Code)
	}

	sign := []byte(fmt.Sprintf(`{"signature":%q}`, signatureDataURL(t)))
	w = do(r, http.MethodPost, quotePath+"/sign", owner, sign)
	if w.Code != http.StatusOK {
		t.Fatalf("sign: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var signed map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &signed)
	if signed["checkout_url"] == nil || signed["invoice"] == nil {
		t.Fatalf("expected checkout and invoice: %s", w.Body.String())
	}

	if w := do(r, http.MethodPost, quotePath+"/sign", owner, sign); w.Code != http.StatusConflict {
		t.Fatalf("second sign: expected 409, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, quotePath+"/cancel", owner, nil); w.Code != http.StatusConflict {
		t.Fatalf("cancel signed: expected 409, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/v1/projects/p1/quote", owner, nil); w.Code != http.StatusConflict {
		t.Fatalf("generate after sign: expected 409, got %d", w.Code)
	}

	w = do(r, http.MethodGet, quotePath+"/invoices", owner, nil)
	var billed []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &billed); w.Code != http.StatusOK || err != nil || len(billed) != 1 {
		t.Fatalf("invoices: unexpected response %d %s", w.Code, w.Body.String())
	}
	if billed[0]["invoice_id"] != signed["invoice"].(map[string]any)["invoice_id"] {
		t.Fatalf("listed invoice differs from the one returned by sign: %v", billed[0])
	}

	w = do(r, http.MethodGet, quotePath+"/document", owner, nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("document: unexpected response %d", w.Code)
	}
}
