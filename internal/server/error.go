package server

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/49nord/humble/internal/protocol"
)

// writeError serves a protocol error envelope with its matched status and
// content-type: application/json. If the envelope itself fails to
// serialize, a SerializeErrorResponse envelope is attempted in its place.
func (m *Mux) writeError(w http.ResponseWriter, logger zerolog.Logger, resp *protocol.ErrorResponse) int {
	body, err := json.Marshal(resp)
	if err != nil {
		logger.Error().Err(err).Msg("cannot serialize error response")
		fallback := protocol.Respond(protocol.SerializeErrorResponse{Message: err.Error()})
		body, err = json.Marshal(fallback)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return http.StatusInternalServerError
		}
		resp = fallback
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_, _ = w.Write(body)
	return resp.Code
}
