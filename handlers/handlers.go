package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/upb/pet-house-api/utils"
)

// decodeBody decodes the JSON request body into dst and validates it
func decodeBody(r *http.Request, dst interface{}) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return err
	}
	return utils.ValidateStruct(dst)
}

// pathParam returns a trimmed, unescaped chi URL parameter.
// chi matches on RawPath when the path is percent-encoded, so segments may arrive escaped.
func pathParam(r *http.Request, name string) (string, error) {
	value, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return "", fmt.Errorf("invalid path parameter %q: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}
