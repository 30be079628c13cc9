package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

const itemNotFound = "Item not found"

// PhotoPresigner issues presigned object URLs. PresignPut allocates the key.
type PhotoPresigner interface {
	PresignPut(ctx context.Context) (key string, url string, err error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type LostFoundInput struct {
	Title       string
	Description string
	Category    models.LostFoundCategory
	ItemType    models.ItemType
	Location    string
	Contact     string
}

type LostFoundService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   PhotoPresigner
	events      *events.Emitter
}

func NewLostFoundService(db *sql.DB, m repomanager.RepositoryManager, presigner PhotoPresigner, emitter *events.Emitter) *LostFoundService {
	return &LostFoundService{db: db, repomanager: m, presigner: presigner, events: emitter}
}

func validItemType(t models.ItemType) bool {
	switch t {
	case models.ItemBook, models.ItemBottle, models.ItemWallet, models.ItemPhone, models.ItemKeys, models.ItemOther:
		return true
	}
	return false
}

func validLostFoundCategory(c models.LostFoundCategory) bool {
	return c == models.CategoryLost || c == models.CategoryFound
}

func (in *LostFoundInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Title == "" || in.Description == "" || in.Location == "" || in.Contact == "" || in.Category == "" {
		return validation("Please provide title, description, category, location and contact")
	}
	if !validLostFoundCategory(in.Category) {
		return validation("Invalid category %q", in.Category)
	}
	if in.ItemType == "" {
		in.ItemType = models.ItemOther
	}
	if !validItemType(in.ItemType) {
		return validation("Invalid item type %q", in.ItemType)
	}
	return nil
}

// List returns active items newest first.
func (s *LostFoundService) List(ctx context.Context, category, itemType string) ([]*models.LostFoundItem, error) {
	items, err := s.repomanager.LostFound(s.db).ListActive(ctx, models.LostFoundFilter{
		Category: models.LostFoundCategory(filterValue(category)),
		ItemType: models.ItemType(filterValue(itemType)),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}

func (s *LostFoundService) Create(ctx context.Context, owner *models.Identity, in LostFoundInput) (*models.LostFoundItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	item, err := s.repomanager.LostFound(s.db).Create(ctx, &models.LostFoundItem{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		ItemType:    in.ItemType,
		Location:    in.Location,
		Contact:     in.Contact,
		User:        models.UserSummary{ID: owner.ID},
		Status:      models.ItemActive,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	s.events.Emit(ctx, events.LostFoundCreated, item)
	return item, nil
}

// withOwnedItem locks the item and runs fn when caller owns it.
func (s *LostFoundService) withOwnedItem(ctx context.Context, caller *models.Identity, id string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if err := checkID(id, itemNotFound); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		owner, err := s.repomanager.LostFound(tx).GetOwnerForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, itemNotFound, "loading item")
		}
		if owner != caller.ID {
			return common.NewError(common.ErrorForbidden, "Not authorized")
		}
		return fn(ctx, tx)
	})
}

func (s *LostFoundService) UpdateStatus(ctx context.Context, caller *models.Identity, id string, status models.ItemStatus) (*models.LostFoundItem, error) {
	if status != models.ItemActive && status != models.ItemResolved {
		return nil, validation("Invalid status %q", status)
	}

	var item *models.LostFoundItem
	err := s.withOwnedItem(ctx, caller, id, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		item, err = s.repomanager.LostFound(tx).UpdateStatus(ctx, id, status)
		if err != nil {
			return notFoundAs(err, itemNotFound, "updating item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *LostFoundService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	return s.withOwnedItem(ctx, caller, id, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.LostFound(tx).Delete(ctx, id); err != nil {
			return notFoundAs(err, itemNotFound, "deleting item")
		}
		return nil
	})
}

// PhotoUploadURL allocates a new object key for the item's photo, records it
// and returns a presigned upload URL. Only the owner may upload.
func (s *LostFoundService) PhotoUploadURL(ctx context.Context, caller *models.Identity, id string) (*models.PhotoUpload, error) {
	var upload *models.PhotoUpload
	err := s.withOwnedItem(ctx, caller, id, func(ctx context.Context, tx dbx.DBTX) error {
		key, url, err := s.presigner.PresignPut(ctx)
		if err != nil {
			return fmt.Errorf("error presigning upload: %w", err)
		}
		if err := s.repomanager.LostFound(tx).SetPhotoKey(ctx, id, key); err != nil {
			return notFoundAs(err, itemNotFound, "saving photo key")
		}
		upload = &models.PhotoUpload{UploadURL: url, Key: key}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return upload, nil
}

func (s *LostFoundService) PhotoURL(ctx context.Context, id string) (string, error) {
	if err := checkID(id, itemNotFound); err != nil {
		return "", err
	}
	item, err := s.repomanager.LostFound(s.db).GetByID(ctx, id)
	if err != nil {
		return "", notFoundAs(err, itemNotFound, "loading item")
	}
	if item.PhotoKey == "" {
		return "", common.NewError(common.ErrorNotFound, "Item has no photo")
	}
	url, err := s.presigner.PresignGet(ctx, item.PhotoKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}
