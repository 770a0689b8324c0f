package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"

	"pokesearch/internal/config"
	"pokesearch/internal/graphql"
	"pokesearch/internal/models"
	"pokesearch/internal/pokeapi"
	"pokesearch/internal/query"
	"pokesearch/internal/render"
	"pokesearch/internal/search"
	"pokesearch/internal/storage"
	"pokesearch/internal/testutil"
)

// TestEncryptCookieSessionRoundTrip verifies that the encryptcookie +
// session middleware stack does not panic when a client replays encrypted
// session cookies across multiple requests.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	// Use the same key-derivation as production (deriveEncryptionKey).
	secret := "test-secret-that-is-long-enough-for-production"
	encryptionKey := deriveEncryptionKey(secret)

	app := fiber.New()

	// Mirror the production middleware order exactly:
	// 1. encryptcookie  2. session  3. route handler
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: encryptionKey,
	}))

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	// Handler that writes a session value on POST and reads it on GET.
	app.Post("/session-set", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("visitor", "alice")
		return c.SendString("ok")
	})
	app.Get("/session-get", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("visitor").(string)
		return c.SendString(val)
	})

	// --- Request 1: establish a session ---
	req, _ := http.NewRequest("POST", "/session-set", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request 1 failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("request 1: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// Collect Set-Cookie headers from the response.
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("request 1: no cookies returned")
	}

	// --- Request 2: replay cookies (triggers encryptcookie decryption) ---
	req2, _ := http.NewRequest("GET", "/session-get", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}

	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("request 2 failed (possible encryptcookie panic): %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode != 200 {
		t.Fatalf("request 2: expected 200, got %d: %s", resp2.StatusCode, body)
	}
	if string(body) != "alice" {
		t.Errorf("request 2: expected session value 'alice', got %q", body)
	}

	// --- Request 3: one more round-trip to confirm stability ---
	cookies2 := resp2.Cookies()
	req3, _ := http.NewRequest("GET", "/session-get", nil)
	// Use cookies from resp2 if present, otherwise replay the first ones.
	replayCookies := cookies2
	if len(replayCookies) == 0 {
		replayCookies = cookies
	}
	for _, c := range replayCookies {
		req3.AddCookie(c)
	}

	resp3, err := app.Test(req3)
	if err != nil {
		t.Fatalf("request 3 failed: %v", err)
	}
	body3, _ := io.ReadAll(resp3.Body)
	if resp3.StatusCode != 200 {
		t.Fatalf("request 3: expected 200, got %d: %s", resp3.StatusCode, body3)
	}
	if string(body3) != "alice" {
		t.Errorf("request 3: expected session value 'alice', got %q", body3)
	}
}

func newTestServer(t *testing.T) (*Server, *testutil.GraphQL) {
	t.Helper()

	upstream := testutil.NewGraphQL(t, map[string]*models.Pokemon{
		"bulbasaur": {
			ID:             "UG9rZW1vbjowMDE=",
			Number:         "001",
			Name:           "Bulbasaur",
			Classification: "Seed Pokémon",
			Types:          []string{"Grass", "Poison"},
			FleeRate:       0.1,
			MaxCP:          951,
			MaxHP:          1071,
			Height:         models.Dimension{Minimum: "0.61m", Maximum: "0.79m"},
			Weight:         models.Dimension{Minimum: "6.04kg", Maximum: "7.76kg"},
			Attacks: models.Attacks{
				Fast: []models.Attack{{Name: "Tackle", Type: "Normal", Damage: 12}},
			},
			Evolutions: []models.Evolution{{ID: "UG9rZW1vbjowMDI=", Name: "Ivysaur"}},
		},
	})
	upstream.Fail("missingno", "Internal server error")

	cfg := &config.Config{
		Env:           "development",
		BaseURL:       "http://localhost:3000",
		RenderWait:    500 * time.Millisecond,
		SessionSecret: "test-secret-that-is-long-enough-for-production",
		SiteTitle:     "Pokemon Search",
	}

	lookups := query.NewClient(pokeapi.New(graphql.New(upstream.URL, time.Second)), query.Options{})
	store := storage.NewMemory()
	svc := search.NewService(lookups, store, render.New(render.DefaultPalette()))

	srv := New(cfg, nil)
	srv.RegisterRoutes(Deps{
		Service: svc,
		Lookups: lookups,
		Store:   store,
	})
	return srv, upstream
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}

func TestIndexStates(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"idle", "/", []string{"Start by searching a Pokemon name"}},
		{"found", "/?name=Bulbasaur", []string{"#001", "Bulbasaur", "type-grass", "Max CP", "10%", "0.61m - 0.79m", "Ivysaur", "No attacks available.", "ID: UG9rZW1vbjowMDE=", "Tackle", "DMG 12", "type-normal"}},
		{"not found", "/?name=doesnotexist", []string{"Pokemon not found", "doesnotexist"}},
		{"failed", "/?name=missingno", []string{"Request failed", "Internal server error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.App.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			body := readBody(t, resp)
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
		})
	}
}

func TestIndexFetchesOncePerName(t *testing.T) {
	srv, upstream := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp, err := srv.App.Test(httptest.NewRequest("GET", "/?name=bulbasaur", nil))
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}

	if calls := upstream.Calls(); len(calls) != 1 {
		t.Errorf("upstream calls = %v, want one", calls)
	}
}

func TestReloadRecoversFromFailedLookup(t *testing.T) {
	srv, upstream := newTestServer(t)
	upstream.Fail("pikachu", "Bad Gateway")

	get := func(path string) string {
		t.Helper()
		resp, err := srv.App.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		return readBody(t, resp)
	}

	if body := get("/?name=pikachu"); !strings.Contains(body, "Request failed") {
		t.Fatalf("first load did not fail: %s", body)
	}

	upstream.Restore("pikachu", &models.Pokemon{ID: "UG9rZW1vbjowMjU=", Number: "025", Name: "Pikachu"})

	if body := get("/?name=pikachu"); !strings.Contains(body, "#025") || !strings.Contains(body, "No further evolutions.") {
		t.Errorf("reload did not recover: %s", body)
	}
	if body := get("/api/pokemon?name=pikachu"); !strings.Contains(body, `"state":"found"`) {
		t.Errorf("api lookup = %s", body)
	}
	if calls := upstream.Calls(); len(calls) != 2 {
		t.Errorf("upstream calls = %v, want two", calls)
	}
}

func TestSubmitRedirects(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name     string
		form     url.Values
		location string
	}{
		{"sets name", url.Values{"name": {"  Pikachu "}}, "/?name=pikachu"},
		{"empty clears", url.Values{"name": {"   "}}, "/"},
		{"keeps other params", url.Values{"name": {"bulbasaur"}, "return": {"lang=en"}}, "/?lang=en&name=bulbasaur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/search", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := srv.App.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusSeeOther {
				t.Fatalf("status = %d, want 303", resp.StatusCode)
			}
			if got := resp.Header.Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestRecentSearchesFollowVisitor(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"name": {"Bulbasaur"}}
	req := httptest.NewRequest("POST", "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("submit: no session cookie")
	}

	req = httptest.NewRequest("GET", "/api/recent", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err = srv.App.Test(req)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"recent":["bulbasaur"]`) {
		t.Errorf("same visitor recent = %s", body)
	}

	resp, err = srv.App.Test(httptest.NewRequest("GET", "/api/recent", nil))
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"recent":[]`) {
		t.Errorf("new visitor recent = %s", body)
	}
}

func TestAPISearch(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"name":" BULBASAUR "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)
	for _, w := range []string{`"url":"/?name=bulbasaur"`, `"state":"found"`, `"number":"#001"`} {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q: %s", w, body)
		}
	}

	req = httptest.NewRequest("POST", "/api/search", strings.NewReader(`not json`))
	resp, err = srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", resp.StatusCode)
	}
}

func TestProbes(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/api/health"} {
		resp, err := srv.App.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}
