package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupHandler_AllowsInitialSetup(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/setup", SetupHandler())

	body := []byte(`{"username":"admin","password":"pw","goal":"exercise daily","timeBudgetMinutes":20}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/setup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "setup_complete") {
		t.Errorf("expected setup_complete flag, got: %s", w.Body.String())
	}
}

func TestSetupHandler_RejectsWhenUsersExist(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	seedUser(t, "existing", "admin")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/setup", SetupHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/setup", bytes.NewReader([]byte(`{"username":"x","password":"y"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden once users exist, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetupHandler_RequiresCredentials(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/setup", SetupHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/setup", bytes.NewReader([]byte(`{"username":""}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request for empty credentials, got %d: %s", w.Code, w.Body.String())
	}
}
