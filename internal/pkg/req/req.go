/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates JSON body decoding with error handling so that malformed input
always surfaces as a client error instead of a handler crash.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"minichat/internal/pkg/errs"
)

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// Unknown fields are tolerated; trailing content after the JSON document is rejected.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
