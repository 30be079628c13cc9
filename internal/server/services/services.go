// Package services contains the server's business logic. Services validate
// input, enforce ownership rules, run repositories (inside a transaction
// where a read decides a write) and publish domain events.
package services

import (
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/google/uuid"
)

// filterValue maps the "all" wildcard used by clients to an empty filter.
func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// checkID rejects ids that cannot exist, so they surface as not found rather
// than as a driver cast error.
func checkID(id, notFound string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.NewError(common.ErrorNotFound, "%s", notFound)
	}
	return nil
}

func validation(format string, args ...any) error {
	return common.NewError(common.ErrorValidation, format, args...)
}
