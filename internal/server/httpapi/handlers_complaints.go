package httpapi

import (
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type complaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    models.ComplaintCategory `json:"category"`
	Priority    models.Priority          `json:"priority"`
}

type complaintStatusRequest struct {
	Status     models.ComplaintStatus `json:"status"`
	AssignedTo string                 `json:"assignedTo"`
}

type complaintPriorityRequest struct {
	Priority models.Priority `json:"priority"`
}

func (s *Server) listComplaints(c *fiber.Ctx) error {
	list, err := s.svc.Complaints.List(c.UserContext(), identity(c), c.Query("status"), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "complaints": list})
}

func (s *Server) complaintStats(c *fiber.Ctx) error {
	st, err := s.svc.Complaints.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) createComplaint(c *fiber.Ctx) error {
	var req complaintRequest
	if err := s.validator.bind(c, "complaint", &req); err != nil {
		return err
	}

	cm, err := s.svc.Complaints.Create(c.UserContext(), identity(c), services.ComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint registered successfully",
		"complaint": cm,
	})
}

func (s *Server) updateComplaintStatus(c *fiber.Ctx) error {
	var req complaintStatusRequest
	if err := s.validator.bind(c, "complaint_status", &req); err != nil {
		return err
	}

	cm, err := s.svc.Complaints.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint status updated successfully",
		"complaint": cm,
	})
}

func (s *Server) updateComplaintPriority(c *fiber.Ctx) error {
	var req complaintPriorityRequest
	if err := s.validator.bind(c, "complaint_priority", &req); err != nil {
		return err
	}

	cm, err := s.svc.Complaints.UpdatePriority(c.UserContext(), c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint priority updated successfully",
		"complaint": cm,
	})
}

func (s *Server) deleteComplaint(c *fiber.Ctx) error {
	if err := s.svc.Complaints.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Complaint deleted successfully"})
}
