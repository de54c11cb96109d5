// Package userdb implements the user document store using BadgerHold.
// Each user owns a single document: portfolio entries plus notes. Writes
// replace the stored arrays in full.
package userdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// Store implements interfaces.UserStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
	now    func() time.Time
	newID  func() string
}

// StoreOption configures the store
type StoreOption func(*Store)

// WithClock sets the clock used for document and note timestamps
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the note ID generator, letting tests pin IDs
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

// NewStore opens (creating if needed) a user store at path.
func NewStore(logger *common.Logger, path string, opts ...StoreOption) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create userdb path %s: %w", path, err)
	}
	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil
	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open userdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("UserDB opened")

	s := &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetDocument returns the user's document, or an empty one when the user has
// no record yet. Absence is not an error.
func (s *Store) GetDocument(_ context.Context, userID string) (*models.UserDocument, error) {
	var doc models.UserDocument
	if err := s.db.Get(userID, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.UserDocument{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get document for user '%s': %w", userID, err)
	}
	return &doc, nil
}

// SaveDocument replaces the user's document.
func (s *Store) SaveDocument(_ context.Context, doc *models.UserDocument) error {
	if doc.UserID == "" {
		return fmt.Errorf("document has no user id")
	}
	doc.UpdatedAt = s.now()
	if err := s.db.Upsert(doc.UserID, doc); err != nil {
		return fmt.Errorf("failed to save document for user '%s': %w", doc.UserID, err)
	}
	return nil
}

// AddHolding appends a holding, removing any existing entry with the same
// symbol first so a symbol appears at most once.
func (s *Store) AddHolding(ctx context.Context, userID string, holding models.Holding) error {
	doc, err := s.GetDocument(ctx, userID)
	if err != nil {
		return err
	}

	kept := doc.Portfolio[:0]
	for _, h := range doc.Portfolio {
		if h.Symbol != holding.Symbol {
			kept = append(kept, h)
		}
	}
	holding.AddedAt = s.now()
	doc.Portfolio = append(kept, holding)

	return s.SaveDocument(ctx, doc)
}

// RemoveHolding deletes the holding with the given symbol. Removing an
// absent symbol is a no-op.
func (s *Store) RemoveHolding(ctx context.Context, userID, symbol string) error {
	doc, err := s.GetDocument(ctx, userID)
	if err != nil {
		return err
	}

	kept := doc.Portfolio[:0]
	for _, h := range doc.Portfolio {
		if h.Symbol != symbol {
			kept = append(kept, h)
		}
	}
	doc.Portfolio = kept

	return s.SaveDocument(ctx, doc)
}

// AddNote appends a note, assigning its ID and timestamps.
func (s *Store) AddNote(ctx context.Context, userID string, note models.Note) (*models.Note, error) {
	doc, err := s.GetDocument(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	note.ID = s.newID()
	note.CreatedAt = now
	note.UpdatedAt = now
	doc.Notes = append(doc.Notes, note)

	if err := s.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's title and content and bumps UpdatedAt.
func (s *Store) UpdateNote(ctx context.Context, userID string, note models.Note) error {
	doc, err := s.GetDocument(ctx, userID)
	if err != nil {
		return err
	}

	for i := range doc.Notes {
		if doc.Notes[i].ID == note.ID {
			doc.Notes[i].Title = note.Title
			doc.Notes[i].Content = note.Content
			doc.Notes[i].UpdatedAt = s.now()
			return s.SaveDocument(ctx, doc)
		}
	}
	return fmt.Errorf("note '%s' not found for user '%s'", note.ID, userID)
}

// DeleteNote removes a note by ID. Deleting an absent note is a no-op.
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) error {
	doc, err := s.GetDocument(ctx, userID)
	if err != nil {
		return err
	}

	kept := doc.Notes[:0]
	for _, n := range doc.Notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	doc.Notes = kept

	return s.SaveDocument(ctx, doc)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements UserStore
var _ interfaces.UserStore = (*Store)(nil)
