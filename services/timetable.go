package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notekit/server/database"
)

const dateLayout = "2006-01-02"

// templateKey is the fixed id of the singleton weekly template document.
const templateKey = "templates"

// TimetableService handles the weekly template and per-task completion
// streaks.
type TimetableService struct {
	store *database.Store
}

func NewTimetableService(store *database.Store) *TimetableService {
	return &TimetableService{store: store}
}

// TodaySlot is a timetable slot enriched with its streak state.
type TodaySlot struct {
	database.TimetableSlot
	Streak    int  `json:"streak"`
	Completed bool `json:"completed"`
}

// TodayView is the mode-selected active sequence for the current day.
type TodayView struct {
	Mode  string      `json:"mode"`
	Slots []TodaySlot `json:"slots"`
}

func (s *TimetableService) templates(ctx context.Context, username string) (*database.Collection, error) {
	return s.store.Tenant(ctx, database.TenantKey{Username: username, Domain: database.DomainTemplates})
}

func (s *TimetableService) streaks(ctx context.Context, username string) (*database.Collection, error) {
	return s.store.Tenant(ctx, database.TenantKey{Username: username, Domain: database.DomainStreaks})
}

// Templates loads the user's weekly template, or an empty constant-mode
// template if none has been saved yet.
func (s *TimetableService) Templates(ctx context.Context, username string) (*database.WeeklyTemplate, error) {
	coll, err := s.templates(ctx, username)
	if err != nil {
		return nil, err
	}

	raw, err := coll.Get(ctx, templateKey)
	if errors.Is(err, database.ErrNotFound) {
		return emptyTemplate(), nil
	}
	if err != nil {
		return nil, err
	}

	var tpl database.WeeklyTemplate
	if err := unmarshalDoc(raw, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// SaveTemplates normalizes and stores the weekly template. Slots missing
// a slot_id get one assigned here, on first save; existing slot_ids are
// never rewritten since streak records join on them.
func (s *TimetableService) SaveTemplates(ctx context.Context, username string, tpl *database.WeeklyTemplate) error {
	coll, err := s.templates(ctx, username)
	if err != nil {
		return err
	}

	if tpl.Mode == "" {
		tpl.Mode = "constant"
	}
	normalizeSlots(tpl.Constant)
	for d := time.Sunday; d <= time.Saturday; d++ {
		normalizeSlots(tpl.Day(d))
	}

	return coll.Put(ctx, templateKey, tpl)
}

func emptyTemplate() *database.WeeklyTemplate {
	return &database.WeeklyTemplate{
		Mode:      "constant",
		Constant:  []database.TimetableSlot{},
		Monday:    []database.TimetableSlot{},
		Tuesday:   []database.TimetableSlot{},
		Wednesday: []database.TimetableSlot{},
		Thursday:  []database.TimetableSlot{},
		Friday:    []database.TimetableSlot{},
		Saturday:  []database.TimetableSlot{},
		Sunday:    []database.TimetableSlot{},
	}
}

func normalizeSlots(slots []database.TimetableSlot) {
	for i := range slots {
		if slots[i].SlotID == "" {
			slots[i].SlotID = uuid.NewString()
		}
		if slots[i].Category == "" {
			slots[i].Category = "General"
		}
	}
}

// Today returns the active sequence for now's weekday (or the constant
// sequence), each slot enriched with its streak count and whether it was
// completed today.
func (s *TimetableService) Today(ctx context.Context, username string, now time.Time) (*TodayView, error) {
	coll, err := s.templates(ctx, username)
	if err != nil {
		return nil, err
	}

	raw, err := coll.Get(ctx, templateKey)
	if errors.Is(err, database.ErrNotFound) {
		return &TodayView{Mode: "constant", Slots: []TodaySlot{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var tpl database.WeeklyTemplate
	if err := unmarshalDoc(raw, &tpl); err != nil {
		return nil, err
	}

	slots := tpl.Constant
	if tpl.Mode != "constant" {
		slots = tpl.Day(now.Weekday())
	}

	streakColl, err := s.streaks(ctx, username)
	if err != nil {
		return nil, err
	}

	today := now.Format(dateLayout)
	view := &TodayView{Mode: tpl.Mode, Slots: make([]TodaySlot, 0, len(slots))}
	for _, slot := range slots {
		enriched := TodaySlot{TimetableSlot: slot}

		raw, err := streakColl.Get(ctx, slot.SlotID)
		if err == nil {
			var streak database.TaskStreak
			if err := unmarshalDoc(raw, &streak); err != nil {
				return nil, err
			}
			enriched.Streak = streak.Streak
			enriched.Completed = streak.LastDate == today
		} else if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}

		view.Slots = append(view.Slots, enriched)
	}
	return view, nil
}

// MarkComplete records a completion for slotID on the given calendar date
// and returns the new streak count. The streak extends only when the
// previous completion was exactly one day earlier; any other prior state,
// including a repeated completion on the same date, resets it to 1.
func (s *TimetableService) MarkComplete(ctx context.Context, username, slotID, dateStr string) (int, error) {
	if slotID == "" {
		return 0, database.Invalidf("task_id is required")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return 0, database.Invalidf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}

	coll, err := s.streaks(ctx, username)
	if err != nil {
		return 0, err
	}

	newStreak := 1
	raw, err := coll.Get(ctx, slotID)
	if err == nil {
		var existing database.TaskStreak
		if err := unmarshalDoc(raw, &existing); err != nil {
			return 0, err
		}
		yesterday := date.AddDate(0, 0, -1).Format(dateLayout)
		if existing.LastDate == yesterday {
			newStreak = existing.Streak + 1
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return 0, err
	}

	record := database.TaskStreak{
		SlotID:   slotID,
		Streak:   newStreak,
		LastDate: date.Format(dateLayout),
	}
	if err := coll.Put(ctx, slotID, record); err != nil {
		return 0, err
	}
	return newStreak, nil
}
