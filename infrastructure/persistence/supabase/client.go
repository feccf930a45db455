// Package supabase stores profiles and books in the hosted Supabase project and calls its
// edge functions.
package supabase

import (
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	usersTable = "users"
	booksTable = "books"
)

// TableClient is the PostgREST surface the repositories need. *supabase.Client and
// *postgrest.Client both satisfy it.
type TableClient interface {
	From(table string) *postgrest.QueryBuilder
}

// FunctionInvoker calls a deployed edge function and returns its raw response body
type FunctionInvoker interface {
	Invoke(functionName string, payload interface{}) (string, error)
}

// NewClient connects to the Supabase project
func NewClient(url, anonKey string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create Supabase client: %w", err)
	}
	return client, nil
}
