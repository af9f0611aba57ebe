package response

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

const maxBodyBytes = 1 << 16

// DecodeJSON decodes a JSON request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}
	return nil
}
