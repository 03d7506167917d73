package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/notekit/server/database"
)

// TodoService handles todo block CRUD for per-user collections.
type TodoService struct {
	store *database.Store
}

func NewTodoService(store *database.Store) *TodoService {
	return &TodoService{store: store}
}

// TodoBlockInput is the client payload for creating or updating a block.
type TodoBlockInput struct {
	Title string                   `json:"title"`
	Items []database.TodoItemInput `json:"items"`
}

// todoBlockDoc is the stored shape of a block; the block id lives on the
// document row, not inside it.
type todoBlockDoc struct {
	Title string              `json:"title"`
	Items []database.TodoItem `json:"items"`
}

// AssignItemIDs normalizes raw items and ensures each has a unique integer
// id. Items that already carry an id keep it; the rest are numbered upward
// from startingID. An explicit id at or above the running counter pushes
// the counter past it, so later auto-assigned ids never collide.
func AssignItemIDs(items []database.TodoItemInput, startingID int) []database.TodoItem {
	assigned := make([]database.TodoItem, 0, len(items))
	current := startingID
	for _, in := range items {
		item := database.TodoItem{
			Text:         in.Text,
			Done:         in.Done,
			ReminderDate: in.ReminderDate,
			ReminderTime: in.ReminderTime,
		}
		if in.ID != nil {
			item.ID = *in.ID
			if *in.ID >= current {
				current = *in.ID + 1
			}
		} else {
			item.ID = current
			current++
		}
		assigned = append(assigned, item)
	}
	return assigned
}

// MergeItems reconciles a client-submitted (possibly partial) item list
// against the stored one. Items carrying an id are kept as submitted; new
// items are numbered above every id seen across existing and incoming
// data, so ids are never reused even after deletions. The result is
// sorted ascending by id.
func MergeItems(existing []database.TodoItem, incoming []database.TodoItemInput) []database.TodoItem {
	maxID := 0
	for _, it := range existing {
		if it.ID > maxID {
			maxID = it.ID
		}
	}

	withIDs := make([]database.TodoItem, 0, len(incoming))
	var withoutIDs []database.TodoItemInput
	for _, in := range incoming {
		if in.ID == nil {
			withoutIDs = append(withoutIDs, in)
			continue
		}
		withIDs = append(withIDs, database.TodoItem{
			ID:           *in.ID,
			Text:         in.Text,
			Done:         in.Done,
			ReminderDate: in.ReminderDate,
			ReminderTime: in.ReminderTime,
		})
		if *in.ID > maxID {
			maxID = *in.ID
		}
	}

	merged := append(withIDs, AssignItemIDs(withoutIDs, maxID+1)...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}

func (s *TodoService) collection(ctx context.Context, username string) (*database.Collection, error) {
	return s.store.Tenant(ctx, database.TenantKey{Username: username, Domain: database.DomainTodos})
}

// Create stores a new block. An absent item list is seeded with a single
// empty item so the client always has something to edit.
func (s *TodoService) Create(ctx context.Context, username string, in TodoBlockInput) (*database.TodoBlock, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	items := in.Items
	if len(items) == 0 {
		one := 1
		items = []database.TodoItemInput{{ID: &one}}
	}

	doc := todoBlockDoc{
		Title: in.Title,
		Items: AssignItemIDs(items, 1),
	}
	if doc.Title == "" {
		doc.Title = "Untitled List"
	}

	id, err := coll.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &database.TodoBlock{ID: id, Title: doc.Title, Items: doc.Items}, nil
}

// List returns every block for the user in creation order.
func (s *TodoService) List(ctx context.Context, username string) ([]database.TodoBlock, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	docs, err := coll.All(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]database.TodoBlock, 0, len(docs))
	for _, d := range docs {
		var doc todoBlockDoc
		if err := unmarshalDoc(d.Doc, &doc); err != nil {
			return nil, err
		}
		blocks = append(blocks, database.TodoBlock{ID: d.ID, Title: doc.Title, Items: doc.Items})
	}
	return blocks, nil
}

// Get returns a single block by id.
func (s *TodoService) Get(ctx context.Context, username, id string) (*database.TodoBlock, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	raw, err := coll.Get(ctx, id)
	if err != nil {
		return nil, blockErr(id, err)
	}
	var doc todoBlockDoc
	if err := unmarshalDoc(raw, &doc); err != nil {
		return nil, err
	}
	return &database.TodoBlock{ID: id, Title: doc.Title, Items: doc.Items}, nil
}

// Update runs the reconciliation merge against the stored block and
// replaces it wholesale. Returns a not-found error for unknown ids.
func (s *TodoService) Update(ctx context.Context, username, id string, in TodoBlockInput) (*database.TodoBlock, error) {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return nil, err
	}

	raw, err := coll.Get(ctx, id)
	if err != nil {
		return nil, blockErr(id, err)
	}
	var existing todoBlockDoc
	if err := unmarshalDoc(raw, &existing); err != nil {
		return nil, err
	}

	doc := todoBlockDoc{
		Title: in.Title,
		Items: MergeItems(existing.Items, in.Items),
	}
	if doc.Title == "" {
		doc.Title = existing.Title
	}
	if doc.Title == "" {
		doc.Title = "Untitled List"
	}

	if err := coll.Replace(ctx, id, doc); err != nil {
		return nil, blockErr(id, err)
	}
	return &database.TodoBlock{ID: id, Title: doc.Title, Items: doc.Items}, nil
}

// Delete removes a block by id.
func (s *TodoService) Delete(ctx context.Context, username, id string) error {
	coll, err := s.collection(ctx, username)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, id); err != nil {
		return blockErr(id, err)
	}
	return nil
}

func blockErr(id string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("todo block not found with id %s: %w", id, err)
	}
	return err
}
