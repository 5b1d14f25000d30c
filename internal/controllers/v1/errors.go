package v1

import (
	"errors"
	"net/http"

	"github.com/messmill/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the student has already been edited today"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, models.ErrNoSuchStudent) || errors.Is(err, models.ErrEmptyCollection) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errStudentNotSpecified = errors.New("either studentId or studentName must be set")
	errMonthInvalid        = errors.New("the month query parameter must be in YYYY-MM format")
)

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
	errRestartConfirmation = errors.New("the confirmation for the restart API call was incorrect")
)

// Import errors
var (
	errNoFilePost = errors.New("you must send a file or a JSON document to this endpoint")
)
