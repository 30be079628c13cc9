package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{common.NewError(common.ErrorValidation, "bad"), http.StatusBadRequest, codeValidation},
		{common.ErrTokenExpired, http.StatusUnauthorized, codeUnauthenticated},
		{common.ErrTokenRevoked, http.StatusUnauthorized, codeUnauthenticated},
		{common.ErrInvalidToken, http.StatusUnauthorized, codeUnauthenticated},
		{common.ErrorUnauthorized, http.StatusUnauthorized, codeUnauthenticated},
		{common.ErrorForbidden, http.StatusForbidden, codeForbidden},
		{fmt.Errorf("wrapped: %w", common.ErrorNotFound), http.StatusNotFound, codeNotFound},
		{common.ErrorAlreadyExists, http.StatusConflict, codeConflict},
		{fiber.ErrNotFound, http.StatusNotFound, codeNotFound},
		{fiber.ErrBadRequest, http.StatusBadRequest, codeValidation},
		{fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, codeValidation},
		{errors.New("boom"), http.StatusInternalServerError, codeInternal},
		{fmt.Errorf("revocation check: %w", errors.New("redis down")), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.status, got.status)
			assert.Equal(t, tt.code, got.code)
		})
	}
}
