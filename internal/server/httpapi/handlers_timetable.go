package httpapi

import (
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type classRequest struct {
	Day     models.Day `json:"day"`
	Time    string     `json:"time"`
	Subject string     `json:"subject"`
	Room    string     `json:"room"`
	Teacher string     `json:"teacher"`
}

func (r classRequest) input() services.ClassInput {
	return services.ClassInput{Day: r.Day, Time: r.Time, Subject: r.Subject, Room: r.Room, Teacher: r.Teacher}
}

func (s *Server) listClasses(c *fiber.Ctx) error {
	list, err := s.svc.Timetable.List(c.UserContext(), identity(c), c.Query("userEmail"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "timetable": list})
}

func (s *Server) createClass(c *fiber.Ctx) error {
	var req classRequest
	if err := s.validator.bind(c, "class", &req); err != nil {
		return err
	}

	e, err := s.svc.Timetable.Create(c.UserContext(), identity(c), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Class added successfully",
		"class":   e,
	})
}

func (s *Server) updateClass(c *fiber.Ctx) error {
	var req classRequest
	if err := s.validator.bind(c, "class_update", &req); err != nil {
		return err
	}

	e, err := s.svc.Timetable.Update(c.UserContext(), identity(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Class updated successfully",
		"class":   e,
	})
}

func (s *Server) deleteClass(c *fiber.Ctx) error {
	if err := s.svc.Timetable.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Class deleted successfully"})
}

func (s *Server) deleteSlot(c *fiber.Ctx) error {
	day, t := models.Day(c.Params("day")), c.Params("time")
	if err := s.svc.Timetable.DeleteSlot(c.UserContext(), identity(c), day, t); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Class deleted successfully"})
}
