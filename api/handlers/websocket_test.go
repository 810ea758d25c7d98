package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/hub"
)

func newWSRouter() *gin.Engine {
	r := gin.New()
	h := hub.New()
	NewWebSocketHandler(hub.NewHandler(h)).RegisterRoutes(r)
	return r
}

func TestWebSocketConnectRejectsInvalidAgentID(t *testing.T) {
	r := newWSRouter()

	for _, raw := range []string{"abc", "-1", "0", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/ws?agent_id="+raw, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("agent_id=%q: expected 400, got %d", raw, w.Code)
		}
	}
}

func TestWebSocketConnectRequiresUpgrade(t *testing.T) {
	r := newWSRouter()

	// A plain HTTP request without upgrade headers cannot become a
	// WebSocket session.
	req := httptest.NewRequest(http.MethodGet, "/ws?agent_id=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-upgrade request, got %d", w.Code)
	}
}
