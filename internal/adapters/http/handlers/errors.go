package handlers

import (
	"errors"
	"strconv"
	"strings"

	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/logger"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// errorKind maps a domain error kind to the response helper for its status
type errorKind struct {
	err   error
	write func(c *fiber.Ctx, message string) error
}

var errorKinds = []errorKind{
	{domain.ErrUnauthenticated, response.Unauthorized},
	{domain.ErrInvalidCredentials, response.Unauthorized},
	{domain.ErrTokenExpired, response.Unauthorized},
	{domain.ErrTokenInvalid, response.Unauthorized},
	{domain.ErrTokenRevoked, response.Unauthorized},
	{domain.ErrForbidden, response.Forbidden},
	{domain.ErrUserInactive, response.Forbidden},
	{domain.ErrNotFound, response.NotFound},
	{domain.ErrInvalidState, response.BadRequest},
	{domain.ErrValidation, response.BadRequest},
	{domain.ErrConflict, response.Conflict},
	{domain.ErrCapacityExceeded, response.Conflict},
}

// respondError writes err in the response envelope. resource names the
// entity for not-found and internal errors, e.g. "Mission".
func respondError(c *fiber.Ctx, err error, resource string) error {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		if k.err == domain.ErrNotFound {
			return k.write(c, resource+" not found")
		}
		return k.write(c, detail(err, k.err))
	}

	logger.Log.WithError(err).WithField("path", c.Path()).Error(resource + " request failed")
	return response.InternalServerError(c, "Internal server error")
}

// detail returns the text after the kind marker in a wrapped error, so
// "get mission 3: forbidden: only the owner" becomes "only the owner"
func detail(err, kind error) string {
	msg := err.Error()
	marker := kind.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return kind.Error()
}

// paramID parses a positive integer route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
