package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/gofiber/fiber/v2"
)

// Stable error codes returned in the "error" field.
const (
	codeValidation      = "validation_error"
	codeUnauthenticated = "unauthenticated"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeConflict        = "conflict"
	codeInternal        = "internal_error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type errorClass struct {
	status  int
	code    string
	message string
}

func classify(err error) errorClass {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return errorClass{fiber.StatusBadRequest, codeValidation, "Invalid request"}
	case errors.Is(err, common.ErrTokenExpired):
		return errorClass{fiber.StatusUnauthorized, codeUnauthenticated, "Token expired"}
	case errors.Is(err, common.ErrTokenRevoked):
		return errorClass{fiber.StatusUnauthorized, codeUnauthenticated, "Token has been revoked"}
	case errors.Is(err, common.ErrInvalidToken):
		return errorClass{fiber.StatusUnauthorized, codeUnauthenticated, "Invalid token"}
	case errors.Is(err, common.ErrorUnauthorized):
		return errorClass{fiber.StatusUnauthorized, codeUnauthenticated, "Unauthorized"}
	case errors.Is(err, common.ErrorForbidden):
		return errorClass{fiber.StatusForbidden, codeForbidden, "Not authorized"}
	case errors.Is(err, common.ErrorNotFound):
		return errorClass{fiber.StatusNotFound, codeNotFound, "Not found"}
	case errors.Is(err, common.ErrorAlreadyExists):
		return errorClass{fiber.StatusConflict, codeConflict, "Already exists"}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return errorClass{fe.Code, codeNotFound, "Route not found"}
		case fiber.StatusMethodNotAllowed:
			return errorClass{fe.Code, codeNotFound, fe.Message}
		}
		if fe.Code >= 400 && fe.Code < 500 {
			return errorClass{fe.Code, codeValidation, fe.Message}
		}
	}

	return errorClass{fiber.StatusInternalServerError, codeInternal, "Server error"}
}

// errorHandler is the single place where errors become HTTP responses.
// Internal failures are logged and answered without detail.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	ec := classify(err)

	msg := ec.message
	if ec.status == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	} else if m := common.Message(err); m != "" {
		msg = m
	}

	return c.Status(ec.status).JSON(errorResponse{
		Success: false,
		Message: msg,
		Error:   ec.code,
	})
}
