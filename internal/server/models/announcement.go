package models

import "time"

type AnnouncementCategory string

const (
	AnnouncementGeneral  AnnouncementCategory = "general"
	AnnouncementAcademic AnnouncementCategory = "academic"
	AnnouncementEvent    AnnouncementCategory = "event"
	AnnouncementExam     AnnouncementCategory = "exam"
	AnnouncementHoliday  AnnouncementCategory = "holiday"
	AnnouncementOther    AnnouncementCategory = "other"
)

type Announcement struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Category  AnnouncementCategory `json:"category"`
	Author    UserSummary          `json:"author"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}
