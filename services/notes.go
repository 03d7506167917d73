package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/notekit/server/database"
)

// NoteService handles per-user note CRUD.
type NoteService struct {
	store *database.Store
}

func NewNoteService(store *database.Store) *NoteService {
	return &NoteService{store: store}
}

// NoteInput is the client payload for creating or updating a note.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteDoc struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *NoteService) collection(ctx context.Context, username string) (*database.Collection, error) {
	return s.store.Tenant(ctx, database.TenantKey{Username: username, Domain: database.DomainNotes})
}

// Create stores a new note for the user.
func (s *NoteService) Create(ctx context.Context, username string, in NoteInput) (*database.Note, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	doc := noteDoc{Title: in.Title, Content: in.Content}
	id, err := coll.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &database.Note{ID: id, Title: doc.Title, Content: doc.Content}, nil
}

// List returns every note for the user in creation order.
func (s *NoteService) List(ctx context.Context, username string) ([]database.Note, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	docs, err := coll.All(ctx)
	if err != nil {
		return nil, err
	}

	notes := make([]database.Note, 0, len(docs))
	for _, d := range docs {
		var doc noteDoc
		if err := unmarshalDoc(d.Doc, &doc); err != nil {
			return nil, err
		}
		notes = append(notes, database.Note{ID: d.ID, Title: doc.Title, Content: doc.Content})
	}
	return notes, nil
}

// Update replaces a note by id.
func (s *NoteService) Update(ctx context.Context, username, id string, in NoteInput) (*database.Note, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	doc := noteDoc{Title: in.Title, Content: in.Content}
	if err := coll.Replace(ctx, id, doc); err != nil {
		return nil, noteErr(id, err)
	}
	return &database.Note{ID: id, Title: doc.Title, Content: doc.Content}, nil
}

// Delete removes a note by id.
func (s *NoteService) Delete(ctx context.Context, username, id string) error {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, id); err != nil {
		return noteErr(id, err)
	}
	return nil
}

func noteErr(id string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("note not found with id %s: %w", id, err)
	}
	return err
}
