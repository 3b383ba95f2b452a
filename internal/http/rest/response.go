package rest

import (
	"encoding/json"
	"net/http"

	"github.com/apex/log"
	"github.com/bwise1/incident_reports/util"
	"github.com/bwise1/incident_reports/util/tracing"
)

// ServerResponse is what every Handler returns. When Data is set it is
// written as the whole body; otherwise the body is {"message"} or {"error"}.
type ServerResponse struct {
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Status     string      `json:"-"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"-"`
}

func (s *ServerResponse) body() interface{} {
	if s.Data != nil {
		return s.Data
	}
	return s
}

// respondWithError logs err at the endpoint boundary and returns a response
// carrying the raw error text.
func (api *API) respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	api.logger().WithFields(log.Fields{
		"request_id":     tc.RequestID,
		"request_source": tc.RequestSource,
		"status":         status,
	}).WithError(err).Error(message)

	errText := message
	if err != nil {
		errText = err.Error()
	}

	return &ServerResponse{
		Error:      errText,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func writeErrorResponse(w http.ResponseWriter, err error, status string) {
	body, _ := json.Marshal(ServerResponse{Error: err.Error()})
	writeJSONResponse(w, body, util.StatusCode(status))
}
