package util

import (
	"net/http"

	"github.com/bwise1/incident_reports/util/values"
)

// StatusCode returns the status code represented
// by the specified status. Note that this function
// returns a status code of 200 by default
func StatusCode(status string) int {
	switch status {
	case values.Error:
		return http.StatusInternalServerError
	case values.Created:
		return http.StatusCreated
	case values.BadRequestBody:
		return http.StatusBadRequest
	case values.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}
