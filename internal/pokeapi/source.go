// Package pokeapi looks up Pokemon records on the public GraphQL endpoint.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pokesearch/internal/graphql"
	"pokesearch/internal/models"
)

// DefaultEndpoint is the public Pokemon GraphQL API.
const DefaultEndpoint = "https://graphql-pokemon2.vercel.app"

// ErrMalformedRecord is returned when the endpoint answers with a pokemon
// field that does not match the record shape.
var ErrMalformedRecord = errors.New("malformed pokemon record")

// PokemonByNameQuery fetches every field the result page renders.
const PokemonByNameQuery = `query PokemonByName($name: String!) {
  pokemon(name: $name) {
    id
    number
    name
    image
    classification
    types
    resistant
    weaknesses
    fleeRate
    maxCP
    maxHP
    height {
      minimum
      maximum
    }
    weight {
      minimum
      maximum
    }
    attacks {
      fast {
        name
        type
        damage
      }
      special {
        name
        type
        damage
      }
    }
    evolutionRequirements {
      amount
      name
    }
    evolutions {
      id
      name
    }
  }
}`

const pingQuery = `query Ping { __typename }`

// Source performs name-keyed lookups.
type Source struct {
	client *graphql.Client
}

// New creates a source on top of a GraphQL client.
func New(client *graphql.Client) *Source {
	return &Source{client: client}
}

// Lookup returns the record for name, or nil when the endpoint reports no match.
func (s *Source) Lookup(ctx context.Context, name string) (*models.Pokemon, error) {
	var data struct {
		Pokemon json.RawMessage `json:"pokemon"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         PokemonByNameQuery,
		OperationName: "PokemonByName",
		Variables:     map[string]any{"name": name},
	}, &data)
	if err != nil {
		return nil, err
	}

	if len(data.Pokemon) == 0 || string(data.Pokemon) == "null" {
		return nil, nil
	}

	var p models.Pokemon
	if err := json.Unmarshal(data.Pokemon, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &p, nil
}

// Ping checks that the endpoint answers GraphQL requests.
func (s *Source) Ping(ctx context.Context) error {
	return s.client.Do(ctx, graphql.Request{Query: pingQuery, OperationName: "Ping"}, nil)
}
