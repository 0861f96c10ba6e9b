/*
Package req provides helper functions for HTTP request parsing and data binding.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"roomtoken/internal/pkg/errs"
)

// MaxJSONBodySize bounds the request body accepted by BindJSON.
const MaxJSONBodySize int64 = 4 << 10 // 4 KB

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// When optional is true an empty body leaves dst untouched and is not an error.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) *errs.CustomError {
	if optional && r.ContentLength == 0 {
		return nil
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		case optional && errors.Is(err, io.EOF):
			return nil
		default:
			return errs.NewError(errs.ErrInvalidJSONFormat)
		}
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
