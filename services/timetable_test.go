package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekit/server/database"
)

func TestMarkComplete_FirstCompletion(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	streak, err := svc.MarkComplete(context.Background(), "alice", "slot-1", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestMarkComplete_ConsecutiveDaysExtend(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	var streak int
	var err error
	for day := 1; day <= 5; day++ {
		streak, err = svc.MarkComplete(ctx, "alice", "slot-1", fmt.Sprintf("2026-03-%02d", day))
		require.NoError(t, err)
		assert.Equal(t, day, streak, "streak after day %d", day)
	}
	assert.Equal(t, 5, streak)
}

func TestMarkComplete_ExtendsAcrossMonthBoundary(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-02-28")
	require.NoError(t, err)

	streak, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestMarkComplete_GapResets(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-01")
	require.NoError(t, err)

	streak, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, 1, streak, "a one-day gap must reset the streak")
}

func TestMarkComplete_SameDayTwiceResets(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-02")
	require.NoError(t, err)
	_, err = svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-02")
	require.NoError(t, err)

	// Marking the same date twice does not increment: the second call sees
	// last_date == date, not yesterday, and starts over.
	streak, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestMarkComplete_IndependentPerSlot(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-01")
	require.NoError(t, err)
	_, err = svc.MarkComplete(ctx, "alice", "slot-1", "2026-03-02")
	require.NoError(t, err)

	streak, err := svc.MarkComplete(ctx, "alice", "slot-2", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestMarkComplete_MalformedDate(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	for _, date := range []string{"", "03/01/2026", "2026-13-40", "yesterday"} {
		_, err := svc.MarkComplete(context.Background(), "alice", "slot-1", date)
		var verr *database.ValidationError
		assert.ErrorAs(t, err, &verr, "date %q should be a validation error", date)
	}
}

func TestMarkComplete_MissingTaskID(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	_, err := svc.MarkComplete(context.Background(), "alice", "", "2026-03-01")
	var verr *database.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMarkComplete_EmptyUsername(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	_, err := svc.MarkComplete(context.Background(), "", "slot-1", "2026-03-01")
	var verr *database.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSaveTemplates_AssignsSlotIDs(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	tpl := &database.WeeklyTemplate{
		Mode:     "constant",
		Constant: []database.TimetableSlot{{Title: "Morning run", Start: "07:00", End: "08:00"}},
		Monday:   []database.TimetableSlot{{Title: "Standup", Start: "09:30", End: "09:45"}},
	}
	require.NoError(t, svc.SaveTemplates(ctx, "alice", tpl))

	loaded, err := svc.Templates(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded.Constant, 1)
	assert.NotEmpty(t, loaded.Constant[0].SlotID)
	assert.Equal(t, "General", loaded.Constant[0].Category)
	require.Len(t, loaded.Monday, 1)
	assert.NotEmpty(t, loaded.Monday[0].SlotID)
}

func TestSaveTemplates_SlotIDsStableAcrossSaves(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	tpl := &database.WeeklyTemplate{
		Mode:     "constant",
		Constant: []database.TimetableSlot{{Title: "Reading"}},
	}
	require.NoError(t, svc.SaveTemplates(ctx, "alice", tpl))

	first, err := svc.Templates(ctx, "alice")
	require.NoError(t, err)
	slotID := first.Constant[0].SlotID
	require.NotEmpty(t, slotID)

	// Saving the loaded template again must not rewrite slot ids, since
	// streak records join on them.
	require.NoError(t, svc.SaveTemplates(ctx, "alice", first))
	second, err := svc.Templates(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, slotID, second.Constant[0].SlotID)
}

func TestTemplates_EmptyWhenUnsaved(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	tpl, err := svc.Templates(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "constant", tpl.Mode)
	assert.Empty(t, tpl.Constant)
	assert.Empty(t, tpl.Monday)
}

func TestToday_NoTemplate(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))

	view, err := svc.Today(context.Background(), "alice", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "constant", view.Mode)
	assert.Empty(t, view.Slots)
}

func TestToday_EnrichesWithStreaks(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	tpl := &database.WeeklyTemplate{
		Mode: "constant",
		Constant: []database.TimetableSlot{
			{Title: "Workout", Start: "07:00", End: "08:00"},
			{Title: "Journal", Start: "21:00", End: "21:30"},
		},
	}
	require.NoError(t, svc.SaveTemplates(ctx, "alice", tpl))

	loaded, err := svc.Templates(ctx, "alice")
	require.NoError(t, err)
	workoutID := loaded.Constant[0].SlotID

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	yesterday := "2026-03-01"
	today := "2026-03-02"

	_, err = svc.MarkComplete(ctx, "alice", workoutID, yesterday)
	require.NoError(t, err)
	streak, err := svc.MarkComplete(ctx, "alice", workoutID, today)
	require.NoError(t, err)
	require.Equal(t, 2, streak)

	view, err := svc.Today(ctx, "alice", now)
	require.NoError(t, err)
	require.Len(t, view.Slots, 2)

	assert.Equal(t, 2, view.Slots[0].Streak)
	assert.True(t, view.Slots[0].Completed)
	assert.Equal(t, 0, view.Slots[1].Streak)
	assert.False(t, view.Slots[1].Completed)
}

func TestToday_WeekdayModeSelectsCurrentDay(t *testing.T) {
	svc := NewTimetableService(newTestStore(t))
	ctx := context.Background()

	tpl := &database.WeeklyTemplate{
		Mode:     "weekday",
		Constant: []database.TimetableSlot{{Title: "Should not appear"}},
		Monday:   []database.TimetableSlot{{Title: "Monday planning"}},
		Tuesday:  []database.TimetableSlot{{Title: "Tuesday review"}},
	}
	require.NoError(t, svc.SaveTemplates(ctx, "alice", tpl))

	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	view, err := svc.Today(ctx, "alice", monday)
	require.NoError(t, err)
	assert.Equal(t, "weekday", view.Mode)
	require.Len(t, view.Slots, 1)
	assert.Equal(t, "Monday planning", view.Slots[0].Title)
}
