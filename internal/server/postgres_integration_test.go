package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage/postgres"
)

// TestPostgresIntegration exercises registration, login, follow and posting against a live database.
func TestPostgresIntegration(t *testing.T) {
	if os.Getenv("RUN_POSTGRES_INTEGRATION") != "true" {
		t.Skip("set RUN_POSTGRES_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := mustGetEnv(t, "DATABASE_URL")

	ctx := context.Background()
	store, err := postgres.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	cfg := config.Config{
		Env:            config.EnvTesting,
		StorageDriver:  config.DriverPostgres,
		DatabaseURL:    dbURL,
		JWTSecret:      mustGetEnv(t, "JWT_SECRET"),
		JWTIssuer:      "blog-backend",
		JWTTTL:         15 * time.Minute,
		JWTRefreshTTL:  time.Hour,
		CORSOrigins:    []string{"*"},
		DefaultPerPage: 10,
		MaxPerPage:     100,
	}
	ts := httptest.NewServer(NewHandler(cfg, Deps{
		Store:   store,
		Service: service.New(store),
		Revoked: auth.NewMemoryRevocationStore(),
	}))
	defer ts.Close()

	suffix := time.Now().UnixNano()
	alice := requestRegister(t, ts.URL, fmt.Sprintf("it_alice_%d", suffix))
	bob := requestRegister(t, ts.URL, fmt.Sprintf("it_bob_%d", suffix))

	token := requestLogin(t, ts.URL, alice.Username)

	var msg string
	call(t, http.MethodPost, fmt.Sprintf("%s/api/users/%s/follow/%s", ts.URL, alice.ID, bob.ID), token, nil, http.StatusOK, &msg, nil)
	if msg != fmt.Sprintf("You are now following %s.", bob.Username) {
		t.Fatalf("unexpected follow message %q", msg)
	}

	var followers []models.FollowEdge
	call(t, http.MethodGet, fmt.Sprintf("%s/api/users/%s/followers", ts.URL, bob.ID), token, nil, http.StatusOK, nil, &followers)
	if len(followers) != 1 || followers[0].UserID != alice.ID {
		t.Fatalf("bob's followers = %+v", followers)
	}

	var post models.Post
	call(t, http.MethodPost, ts.URL+"/api/posts", token, map[string]string{
		"image_url": "https://example.com/cover.png",
		"title":     "integration",
		"body":      "hello from the integration test",
	}, http.StatusCreated, nil, &post)
	if post.AuthorID != alice.ID {
		t.Fatalf("post author = %s, want %s", post.AuthorID, alice.ID)
	}

	call(t, http.MethodDelete, fmt.Sprintf("%s/api/posts/%s", ts.URL, post.ID), token, nil, http.StatusNoContent, nil, nil)
	call(t, http.MethodGet, fmt.Sprintf("%s/api/posts/%s", ts.URL, post.ID), token, nil, http.StatusNotFound, nil, nil)

	t.Logf("registered %s and %s, followed and posted via %s", alice.Username, bob.Username, ts.URL)
}

func requestRegister(t *testing.T, baseURL, username string) models.User {
	t.Helper()
	var out models.User
	call(t, http.MethodPost, baseURL+"/api/users", "", map[string]string{
		"first_name": "Integration",
		"last_name":  "Test",
		"email":      username + "@example.com",
		"username":   username,
		"phone":      "+15550100",
		"password":   testPassword,
	}, http.StatusCreated, nil, &out)
	return out
}

func requestLogin(t *testing.T, baseURL, username string) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	call(t, http.MethodPost, baseURL+"/api/login", "", map[string]string{
		"username": username,
		"password": testPassword,
	}, http.StatusOK, nil, &out)
	if strings.TrimSpace(out.AccessToken) == "" {
		t.Fatal("login response missing access token")
	}
	return out.AccessToken
}

func call(t *testing.T, method, url, token string, payload any, wantStatus int, message *string, data any) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status = %d, want %d", method, url, resp.StatusCode, wantStatus)
	}
	if resp.StatusCode == http.StatusNoContent {
		return
	}

	var env struct {
		Message json.RawMessage `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if message != nil {
		if err := json.Unmarshal(env.Message, message); err != nil {
			t.Fatalf("decode message: %v", err)
		}
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
