package httpapi

import (
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := s.validator.bind(c, "register", &req); err != nil {
		return err
	}

	res, err := s.svc.Users.Register(c.UserContext(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "Registered", "email", res.Email, "role", res.Role)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"token":   res.Token,
		"email":   res.Email,
		"role":    res.Role,
		"name":    res.Name,
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.validator.bind(c, "login", &req); err != nil {
		return err
	}

	res, err := s.svc.Users.Login(c.UserContext(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"email":   res.Email,
		"role":    res.Role,
		"name":    res.Name,
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.svc.Users.Logout(c.UserContext(), tokenClaims(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

func (s *Server) me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "user": reloadedUser(c)})
}

func (s *Server) secureData(c *fiber.Ctx) error {
	id := identity(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Welcome " + id.Email + ", here’s your protected info.",
		"user":    id,
	})
}
