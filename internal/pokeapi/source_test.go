package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pokesearch/internal/graphql"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(graphql.New(srv.URL, time.Second))
}

func TestSource_Lookup(t *testing.T) {
	var gotName any
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		json.NewDecoder(r.Body).Decode(&req)
		gotName = req.Variables["name"]
		w.Write([]byte(`{"data":{"pokemon":{"id":"UG9rZW1vbjowMDE=","number":"001","name":"Bulbasaur","types":["Grass","Poison"]}}}`))
	})

	p, err := src.Lookup(context.Background(), "bulbasaur")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if p == nil || p.Number != "001" || p.Name != "Bulbasaur" {
		t.Fatalf("Lookup() = %+v", p)
	}
	if gotName != "bulbasaur" {
		t.Errorf("name variable = %v, want bulbasaur", gotName)
	}
}

func TestSource_LookupNotFound(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"pokemon":null}}`))
	})

	p, err := src.Lookup(context.Background(), "doesnotexist")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if p != nil {
		t.Errorf("Lookup() = %+v, want nil", p)
	}
}

func TestSource_LookupMalformed(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"pokemon":{"maxCP":"lots"}}}`))
	})

	_, err := src.Lookup(context.Background(), "bulbasaur")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Lookup() error = %v, want ErrMalformedRecord", err)
	}
}

func TestSource_LookupRemoteError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	})

	_, err := src.Lookup(context.Background(), "bulbasaur")
	if err == nil || err.Error() != "rate limited" {
		t.Errorf("Lookup() error = %v, want rate limited", err)
	}
}

func TestSource_Ping(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
	})

	if err := src.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
