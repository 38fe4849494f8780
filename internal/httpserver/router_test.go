package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/kitchen"
	"pos-terminal/internal/repository/snapshot"
	"pos-terminal/internal/session"
)

const testSecret = "test-secret"

// fakeBackOffice stands in for the real back-office API behind the terminal.
func fakeBackOffice(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	// Method-prefixed mux patterns ("GET /tables") need Go 1.22+; the
	// toolchain here is 1.21, so dispatch on r.Method instead.
	mux.HandleFunc("/tables", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]domain.Table{
			{ID: 1, Name: "T1", Status: domain.TableFree},
			{ID: 2, Name: "T2", Status: domain.TableDisabled},
		})
	})
	mux.HandleFunc("/tables/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.Table{ID: 1, Name: "T1", Status: domain.TableOccupied})
	})
	mux.HandleFunc("/orders/pending", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPost:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.OrderReceipt{OrderID: 1, CreatedAt: "2026-08-29T10:00:00"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	store, err := snapshot.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	office := fakeBackOffice(t)
	client := backend.New(office.URL)
	sess := session.New(store, client, &kitchen.LogPrinter{Logger: logger}, logger, "Service", 0)

	return buildRouter(logger, Deps{
		Session:   sess,
		Backend:   client,
		Store:     store,
		Hub:       NewHub(logger),
		JWTSecret: testSecret,
	})
}

func mintToken(t *testing.T, secret, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var payload io.Reader
	if body != "" {
		payload = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpointsNeedNoAuth(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}

func TestCartRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodGet, "/api/pos/cart", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCartRejectsUnknownRole(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, "viewer")

	if rec := doJSON(t, router, http.MethodGet, "/api/pos/cart", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCartRejectsForgedToken(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, "wrong-secret", roleStaff)

	if rec := doJSON(t, router, http.MethodGet, "/api/pos/cart", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAddItemShowsUpInView(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/cart/items", token,
		`{"id":1,"name":"Espresso","category":"Coffee","price":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var view session.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Name != "Espresso" {
		t.Fatalf("unexpected items: %+v", view.Items)
	}
	if view.Totals.Total != 3 {
		t.Fatalf("expected total 3, got %v", view.Totals.Total)
	}
}

func TestPriceOverrideNeedsAdminRole(t *testing.T) {
	router := newTestRouter(t)
	staff := mintToken(t, testSecret, roleStaff)
	admin := mintToken(t, testSecret, roleAdmin)

	doJSON(t, router, http.MethodPost, "/api/pos/cart/items", staff,
		`{"id":1,"name":"Espresso","price":3}`)

	rec := doJSON(t, router, http.MethodPut, "/api/pos/cart/items/0", staff,
		`{"note":"rush","price":"1.00"}`)
	var view session.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Items[0].Note != "rush" {
		t.Fatalf("note should apply for staff, got %+v", view.Items[0])
	}
	if view.Items[0].PriceOverride != nil {
		t.Fatalf("staff must not set a price override")
	}

	rec = doJSON(t, router, http.MethodPut, "/api/pos/cart/items/0", admin,
		`{"note":"rush","price":"1.00"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Items[0].PriceOverride == nil || *view.Items[0].PriceOverride != 1.0 {
		t.Fatalf("admin override not applied: %+v", view.Items[0])
	}
}

func TestCheckoutEmptyCartReturns400(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/checkout", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
}

func TestNotifyKitchenWithNothingToFireReturns409(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/kitchen/notify", token, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body)
	}
}

func TestSelectUnknownTableReturns404(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/context/table/99", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body)
	}
}

func TestSelectDisabledTableReturns409(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/context/table/2", token, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body)
	}
}

func TestSelectTableLabelsTheContext(t *testing.T) {
	router := newTestRouter(t)
	token := mintToken(t, testSecret, roleStaff)

	rec := doJSON(t, router, http.MethodPost, "/api/pos/context/table/1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var view session.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ContextLabel != "T1" || view.TableID == nil || *view.TableID != 1 {
		t.Fatalf("unexpected context: %+v", view)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/pos/context/takeaway", token, "")
	view = session.View{} // reset: omitempty fields keep stale values on re-decode
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ContextLabel != session.TakeAwayLabel || view.TableID != nil {
		t.Fatalf("expected take-away context, got %+v", view)
	}
}
