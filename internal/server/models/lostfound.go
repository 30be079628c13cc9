package models

import "time"

type LostFoundCategory string

const (
	CategoryLost  LostFoundCategory = "lost"
	CategoryFound LostFoundCategory = "found"
)

type ItemType string

const (
	ItemBook   ItemType = "book"
	ItemBottle ItemType = "bottle"
	ItemWallet ItemType = "wallet"
	ItemPhone  ItemType = "phone"
	ItemKeys   ItemType = "keys"
	ItemOther  ItemType = "other"
)

type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemResolved ItemStatus = "resolved"
)

type LostFoundItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    LostFoundCategory `json:"category"`
	ItemType    ItemType          `json:"itemType"`
	Location    string            `json:"location"`
	Contact     string            `json:"contact"`
	User        UserSummary       `json:"user"`
	Status      ItemStatus        `json:"status"`
	PhotoKey    string            `json:"photoKey,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type LostFoundFilter struct {
	Category LostFoundCategory
	ItemType ItemType
}

// PhotoUpload is a presigned upload target for an item photo.
type PhotoUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}
