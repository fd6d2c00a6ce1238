package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"cotizaciones/internal/adapter/http/middleware"
	"cotizaciones/internal/config"
	"cotizaciones/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:       config.StoreMemory,
		NumberingScheme:   "monthly",
		NumberingTimezone: "Europe/Madrid",
		PriceField:        "solicitado",
		AllocatorMaxTries: 3,
		SupervisorEmail:   "vanessa@comercialav.com",
		PurchasingEmail:   "compras@comercialav.com",
		Notifier:          "log",
		JWTSecret:         testSecret,
	}
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps, err := Build(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(deps.Close)
	return NewRouter(testConfig(), deps)
}

func bearer(t *testing.T, rol entities.Role) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, entities.Actor{
		UID:         "uid-" + string(rol),
		Email:       string(rol) + "@comercialav.com",
		DisplayName: string(rol),
		Rol:         rol,
	}, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + tok
}

func call(r http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var createBody = map[string]any{
	"cliente":         "ACME",
	"tarifa":          "PVP",
	"stockDisponible": false,
	"articulos": []map[string]any{
		{"articulo": "Switch 24p", "unidades": 2, "precioCliente": 300, "precioSolicitado": 250},
	},
}

func TestPing(t *testing.T) {
	r := newTestServer(t)

	rec := call(r, http.MethodGet, "/v1/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestQuotationRoutes_Authorization(t *testing.T) {
	r := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"no token", http.MethodGet, "/v1/cotizaciones", "", http.StatusUnauthorized},
		{"compras cannot request", http.MethodPost, "/v1/cotizaciones", bearer(t, entities.RoleCompras), http.StatusForbidden},
		{"comercial cannot review", http.MethodPatch, "/v1/cotizaciones/q-1/workflow", bearer(t, entities.RoleComercial), http.StatusForbidden},
		{"any role lists", http.MethodGet, "/v1/cotizaciones", bearer(t, entities.RoleCompras), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(r, tt.method, tt.path, tt.auth, createBody)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestQuotationRoutes_Lifecycle(t *testing.T) {
	r := newTestServer(t)
	comercial := bearer(t, entities.RoleComercial)
	jefe := bearer(t, entities.RoleJefeComercial)

	rec := call(r, http.MethodPost, "/v1/cotizaciones", comercial, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		OK           bool   `json:"ok"`
		ID           string `json:"id"`
		Numero       string `json:"numero"`
		Estado       string `json:"estado"`
		Notificacion struct {
			OK         bool     `json:"ok"`
			Kind       string   `json:"kind"`
			Recipients []string `json:"recipients"`
		} `json:"notificacion"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.OK || created.Estado != "pendiente" {
		t.Fatalf("unexpected create response %+v", created)
	}
	if !regexp.MustCompile(`^COT-\d{4}-\d{2}-001$`).MatchString(created.Numero) {
		t.Fatalf("unexpected numero %q", created.Numero)
	}
	if !created.Notificacion.OK || created.Notificacion.Kind != "solicitud" || len(created.Notificacion.Recipients) != 3 {
		t.Fatalf("unexpected notificacion %+v", created.Notificacion)
	}

	rec = call(r, http.MethodPatch, "/v1/cotizaciones/"+created.ID+"/workflow", jefe, map[string]any{"workflow": "en_revision"})
	if rec.Code != http.StatusOK {
		t.Fatalf("workflow: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(r, http.MethodPatch, "/v1/cotizaciones/"+created.ID+"/estado", comercial, map[string]any{"estado": "ganada"})
	if rec.Code != http.StatusOK {
		t.Fatalf("estado: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(r, http.MethodPatch, "/v1/cotizaciones/"+created.ID+"/workflow", jefe, map[string]any{"workflow": "cotizado"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("closed workflow: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(r, http.MethodPost, "/v1/cotizaciones/"+created.ID+"/comentarios", comercial, map[string]any{"comentario": "revisar margen"})
	if rec.Code != http.StatusOK {
		t.Fatalf("comentario: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(r, http.MethodGet, "/v1/cotizaciones?bucket=Won", comercial, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var list struct {
		Total        int `json:"total"`
		Cotizaciones []struct {
			Numero              string `json:"numero"`
			Bucket              string `json:"bucket"`
			ComentariosPrivados []any  `json:"comentariosPrivados"`
		} `json:"cotizaciones"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 || list.Cotizaciones[0].Numero != created.Numero || list.Cotizaciones[0].Bucket != "Won" {
		t.Fatalf("unexpected list %+v", list)
	}
	if len(list.Cotizaciones[0].ComentariosPrivados) != 1 {
		t.Fatalf("expected the private comment to be stored")
	}
}
