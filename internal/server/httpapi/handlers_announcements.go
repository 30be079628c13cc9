package httpapi

import (
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type announcementRequest struct {
	Title    string                      `json:"title"`
	Content  string                      `json:"content"`
	Category models.AnnouncementCategory `json:"category"`
}

func (r announcementRequest) input() services.AnnouncementInput {
	return services.AnnouncementInput{Title: r.Title, Content: r.Content, Category: r.Category}
}

func (s *Server) listAnnouncements(c *fiber.Ctx) error {
	list, err := s.svc.Announcements.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "announcements": list})
}

func (s *Server) createAnnouncement(c *fiber.Ctx) error {
	var req announcementRequest
	if err := s.validator.bind(c, "announcement", &req); err != nil {
		return err
	}

	a, err := s.svc.Announcements.Create(c.UserContext(), identity(c), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Announcement created successfully",
		"announcement": a,
	})
}

func (s *Server) updateAnnouncement(c *fiber.Ctx) error {
	var req announcementRequest
	if err := s.validator.bind(c, "announcement", &req); err != nil {
		return err
	}

	a, err := s.svc.Announcements.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Announcement updated successfully",
		"announcement": a,
	})
}

func (s *Server) deleteAnnouncement(c *fiber.Ctx) error {
	if err := s.svc.Announcements.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Announcement deleted successfully"})
}
