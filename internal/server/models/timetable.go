package models

import "time"

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Days lists the teaching days in week order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Order returns the day's position in the week starting at 1, or 0 for an
// unknown day.
func (d Day) Order() int {
	for i, day := range Days {
		if day == d {
			return i + 1
		}
	}
	return 0
}

type TimetableEntry struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	Day       Day         `json:"day"`
	Time      string      `json:"time"`
	Subject   string      `json:"subject"`
	Room      string      `json:"room,omitempty"`
	Teacher   string      `json:"teacher,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
