package datasource

import (
	"context"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// Provider fetches a registration-event table from some source. Fetch must
// return a cleaned table that passes registrations.Table.Validate.
type Provider interface {
	Fetch(ctx context.Context) (registrations.Table, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (registrations.Table, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context) (registrations.Table, error) {
	return f(ctx)
}
