// Package firm holds the firm identity record. Firms are created and updated
// by the external onboarding process; this core only reads them.
package firm

import "context"

// Firm identifies one scored entity.
type Firm struct {
	ID      string
	Name    string
	Country string // ISO 3166-1 alpha-2
	Website string
}

// Store reads firm records. No write operations: onboarding owns the rows.
type Store interface {
	FindByID(ctx context.Context, id string) (*Firm, error)
	List(ctx context.Context) ([]Firm, error)
}
