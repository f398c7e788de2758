package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/txnguard/pkg/errors"
)

type errorResponse struct {
	Status  string `json:"status"`
	Class   string `json:"class"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func statusOf(err error) int {
	if errors.Is(err, errUnknownSession) {
		return http.StatusNotFound
	}

	switch errors.ClassOf(err) {
	case errors.ClassUsage, errors.ClassParameter:
		return http.StatusBadRequest
	case errors.ClassSerialization, errors.ClassCapacity, errors.ClassMaxAttempts:
		return http.StatusConflict
	case errors.ClassTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) sendError(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error(errors.WrapFailf(err, "%s %s", c.Method(), c.Path()))
	} else {
		s.log.Debugf("%s %s: %s", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(errorResponse{
		Status:  "ERROR",
		Class:   errors.ClassOf(err).String(),
		Message: err.Error(),
		Detail:  errors.Detail(err),
		Hint:    errors.Hint(err),
	})
}

func badBody(err error) error {
	return errors.Because(err, errors.ClassParameter, "malformed request body", "", "")
}
