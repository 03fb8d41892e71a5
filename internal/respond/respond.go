package respond

import (
	"encoding/json"
	"net/http"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/pkg/types"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error maps a service error to its HTTP status and a JSON body. Internal
// errors are not echoed back to the client.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.KindInternal {
		msg = "internal server error"
	}
	JSON(w, apperr.Status(err), types.ErrorResponse{Error: msg, Kind: string(kind)})
}
