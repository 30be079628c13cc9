package httpapi

import (
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type lostFoundRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    models.LostFoundCategory `json:"category"`
	ItemType    models.ItemType          `json:"itemType"`
	Location    string                   `json:"location"`
	Contact     string                   `json:"contact"`
}

type itemStatusRequest struct {
	Status models.ItemStatus `json:"status"`
}

func (s *Server) listItems(c *fiber.Ctx) error {
	items, err := s.svc.LostFound.List(c.UserContext(), c.Query("category"), c.Query("itemType"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "items": items})
}

func (s *Server) createItem(c *fiber.Ctx) error {
	var req lostFoundRequest
	if err := s.validator.bind(c, "lostfound", &req); err != nil {
		return err
	}

	item, err := s.svc.LostFound.Create(c.UserContext(), identity(c), services.LostFoundInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ItemType:    req.ItemType,
		Location:    req.Location,
		Contact:     req.Contact,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item reported successfully",
		"item":    item,
	})
}

func (s *Server) updateItemStatus(c *fiber.Ctx) error {
	var req itemStatusRequest
	if err := s.validator.bind(c, "lostfound_status", &req); err != nil {
		return err
	}

	item, err := s.svc.LostFound.UpdateStatus(c.UserContext(), identity(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item status updated successfully",
		"item":    item,
	})
}

func (s *Server) deleteItem(c *fiber.Ctx) error {
	if err := s.svc.LostFound.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Item deleted successfully"})
}

func (s *Server) itemPhotoUpload(c *fiber.Ctx) error {
	up, err := s.svc.LostFound.PhotoUploadURL(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "uploadUrl": up.UploadURL, "key": up.Key})
}

func (s *Server) itemPhoto(c *fiber.Ctx) error {
	url, err := s.svc.LostFound.PhotoURL(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "url": url})
}
