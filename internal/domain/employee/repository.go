package employee

import "context"

// RosterProvider exposes the user directory as a read-only roster.
type RosterProvider interface {
	// ListByRole returns every user holding role, ordered by name ascending.
	ListByRole(ctx context.Context, role Role) ([]Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)
}
