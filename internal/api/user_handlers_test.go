package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"easymode/internal/config"
	"easymode/internal/db"
	"easymode/internal/user"
)

func setupRedis() *redis.Client {
	// Dummy client; login tests that reach SetSession tolerate its failure.
	return redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
}

func TestLoginHandler_NeedSetup(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(cfg, setupRedis()))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", bytes.NewReader([]byte(`{"username":"a","password":"b"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for initial setup required, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_InvalidUser(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	seedUser(t, "someone", "user")
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(cfg, setupRedis()))
	payload := map[string]string{"username": "nobody", "password": "wrongpw"}
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized for bad user, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_InvalidPassword(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	hash, _ := user.HashPassword("rightpw")
	u := user.User{Username: "loginuser2", PasswordHash: hash, Role: user.RoleUser, CreatedAt: time.Now()}
	db.DB.Create(&u)
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(cfg, setupRedis()))
	payload := map[string]string{"username": u.Username, "password": "wrongpw"}
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized for bad password, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_Success(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	pw := "mypw"
	hash, _ := user.HashPassword(pw)
	u := user.User{Username: "gooduser", PasswordHash: hash, Role: user.RoleUser, CreatedAt: time.Now()}
	db.DB.Create(&u)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler(cfg, setupRedis()))
	payload := map[string]string{"username": u.Username, "password": pw}
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for valid login, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), u.Username) {
		t.Errorf("expected response to contain username, got: %s", w.Body.String())
	}
}

func TestLogoutHandler_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/logout", LogoutHandler(setupRedis()))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized for logout, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeHandler_UserNotFound(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(99999))
	r.GET("/me", MeHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 Internal Server Error, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeHandler_Success(t *testing.T) {
	setupUserDB(t)
	resetTables(t)
	u := seedUser(t, "meuser", "user")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(u.ID))
	r.GET("/me", MeHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), u.Username) || !contains(w.Body.String(), "xpTotal") {
		t.Errorf("expected username and progress fields, got: %s", w.Body.String())
	}
}
