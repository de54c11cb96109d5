// Package interfaces defines service contracts for MarketLens
package interfaces

import (
	"context"

	"github.com/marketlens/marketlens/internal/models"
)

// UserStore manages per-user documents (portfolio entries plus notes).
// Reads are point-in-time snapshots; writes replace the stored arrays in
// full — there are no partial update semantics.
type UserStore interface {
	// GetDocument returns the user's document, or an empty one when the
	// user has no record yet.
	GetDocument(ctx context.Context, userID string) (*models.UserDocument, error)

	// SaveDocument replaces the user's document.
	SaveDocument(ctx context.Context, doc *models.UserDocument) error

	// AddHolding appends a holding, removing any existing entry with the
	// same symbol first.
	AddHolding(ctx context.Context, userID string, holding models.Holding) error

	// RemoveHolding deletes the holding with the given symbol.
	RemoveHolding(ctx context.Context, userID, symbol string) error

	// AddNote appends a note, assigning its ID and timestamps.
	AddNote(ctx context.Context, userID string, note models.Note) (*models.Note, error)

	// UpdateNote replaces a note's title/content and bumps UpdatedAt.
	UpdateNote(ctx context.Context, userID string, note models.Note) error

	// DeleteNote removes a note by ID.
	DeleteNote(ctx context.Context, userID, noteID string) error

	Close() error
}
