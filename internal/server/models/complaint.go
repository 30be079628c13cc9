package models

import "time"

type ComplaintCategory string

const (
	ComplaintWater       ComplaintCategory = "water"
	ComplaintElectricity ComplaintCategory = "electricity"
	ComplaintCleaning    ComplaintCategory = "cleaning"
	ComplaintMaintenance ComplaintCategory = "maintenance"
	ComplaintOther       ComplaintCategory = "other"
)

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Complaint struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    ComplaintCategory `json:"category"`
	Status      ComplaintStatus   `json:"status"`
	Priority    Priority          `json:"priority"`
	Student     UserSummary       `json:"student"`
	AssignedTo  *UserSummary      `json:"assignedTo,omitempty"`
	ResolvedAt  *time.Time        `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ComplaintFilter narrows a complaint listing. Empty fields match everything.
type ComplaintFilter struct {
	Status    ComplaintStatus
	Category  ComplaintCategory
	StudentID string
}

// StatCount is one group of an aggregate count.
type StatCount struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

type ComplaintStats struct {
	StatusStats   []StatCount `json:"statusStats"`
	CategoryStats []StatCount `json:"categoryStats"`
}
