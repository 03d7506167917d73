package database

import "time"

// TodoItem is a single entry in a todo block. Ids are unique within the
// owning block, assigned once, and never reused for its lifetime.
type TodoItem struct {
	ID           int    `json:"id"`
	Text         string `json:"text"`
	Done         bool   `json:"done"`
	ReminderDate string `json:"reminderDate"`
	ReminderTime string `json:"reminderTime"`
}

// TodoItemInput is a client-submitted item. A nil ID means the server
// should assign one; all other fields default to their zero values.
type TodoItemInput struct {
	ID           *int   `json:"id"`
	Text         string `json:"text"`
	Done         bool   `json:"done"`
	ReminderDate string `json:"reminderDate"`
	ReminderTime string `json:"reminderTime"`
}

// TodoBlock is one todo list owned by a single user. Items are kept
// sorted ascending by id after any update.
type TodoBlock struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []TodoItem `json:"items"`
}

// TimetableSlot is one scheduled task in the weekly template. SlotID is
// assigned on first save and stable thereafter; it is the join key to
// streak records.
type TimetableSlot struct {
	SlotID   string `json:"slot_id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Category string `json:"category"`
}

// WeeklyTemplate is the singleton per-user timetable. Only the sequence
// selected by Mode (either Constant or the current weekday's list) is
// active on a given day.
type WeeklyTemplate struct {
	Mode      string          `json:"mode"`
	Constant  []TimetableSlot `json:"constant"`
	Monday    []TimetableSlot `json:"monday"`
	Tuesday   []TimetableSlot `json:"tuesday"`
	Wednesday []TimetableSlot `json:"wednesday"`
	Thursday  []TimetableSlot `json:"thursday"`
	Friday    []TimetableSlot `json:"friday"`
	Saturday  []TimetableSlot `json:"saturday"`
	Sunday    []TimetableSlot `json:"sunday"`
}

// Day returns the slot sequence for the given weekday.
func (t *WeeklyTemplate) Day(d time.Weekday) []TimetableSlot {
	switch d {
	case time.Monday:
		return t.Monday
	case time.Tuesday:
		return t.Tuesday
	case time.Wednesday:
		return t.Wednesday
	case time.Thursday:
		return t.Thursday
	case time.Friday:
		return t.Friday
	case time.Saturday:
		return t.Saturday
	default:
		return t.Sunday
	}
}

// TaskStreak records the consecutive-day completion run for one slot.
// Streak is the length of the maximal gap-free run ending at LastDate.
type TaskStreak struct {
	SlotID   string `json:"slot_id"`
	Streak   int    `json:"streak"`
	LastDate string `json:"last_date"`
}

// Note is a single user note.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// User is an account record, stored in the shared users collection keyed
// by email.
type User struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	AuthProvider string     `json:"auth_provider,omitempty"`
	OTP          string     `json:"otp,omitempty"`
	OTPExpires   *time.Time `json:"otpExpires,omitempty"`
}
