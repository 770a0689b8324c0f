// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"pokesearch/internal/db"
	"pokesearch/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Uses TEST_DATABASE_URL and skips the test when it is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		database.Pool.Exec(ctx, "DELETE FROM kv_store")
		database.Close()
	}

	return database, cleanup
}

// GraphQL is a fake PokemonByName endpoint.
type GraphQL struct {
	*httptest.Server

	mu      sync.Mutex
	records map[string]*models.Pokemon
	fail    map[string]string
	calls   []string
}

// NewGraphQL starts a fake endpoint serving records keyed by lower-cased
// name. Unknown names answer with a null pokemon.
func NewGraphQL(t *testing.T, records map[string]*models.Pokemon) *GraphQL {
	t.Helper()

	g := &GraphQL{
		records: records,
		fail:    make(map[string]string),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Close)
	return g
}

// Fail makes lookups of name answer with a GraphQL error carrying message.
func (g *GraphQL) Fail(name, message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[name] = message
}

// Restore stops failing name and serves p for it from then on.
func (g *GraphQL) Restore(name string, p *models.Pokemon) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.fail, name)
	g.records[name] = p
}

// Calls returns the names looked up so far, in order.
func (g *GraphQL) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *GraphQL) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if strings.Contains(req.Query, "__typename") && req.Variables == nil {
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
		return
	}

	name, _ := req.Variables["name"].(string)

	g.mu.Lock()
	g.calls = append(g.calls, name)
	msg, failing := g.fail[name]
	p := g.records[name]
	g.mu.Unlock()

	if failing {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   map[string]any{"pokemon": nil},
			"errors": []map[string]string{{"message": msg}},
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"pokemon": p},
	})
}
