// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSONContentType is the content type of every API response body.
const JSONContentType = "application/json; charset=utf-8"

// httpError carries the status a handler failure is answered with.
type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	if e.cause == nil {
		return http.StatusText(e.status)
	}
	return e.cause.Error()
}

func (e *httpError) Unwrap() error { return e.cause }

// HTTPError answers cause with status.
func HTTPError(cause error, status int) error {
	return &httpError{cause, status}
}

// BadRequest answers cause with 400, for malformed input and reverted reads.
func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }

// NotFound answers cause with 404.
func NotFound(cause error) error { return HTTPError(cause, http.StatusNotFound) }

// Forbidden answers cause with 403.
func Forbidden(cause error) error { return HTTPError(cause, http.StatusForbidden) }

// HandlerFunc is an http handler that fails with an error. Errors made by
// HTTPError and its shorthands keep their status, any other error is a 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f to net/http.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		switch {
		case !errors.As(err, &he):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		case he.cause == nil:
			w.WriteHeader(he.status)
		default:
			http.Error(w, he.cause.Error(), he.status)
		}
	}
}

// ParseJSON decodes a request body, refusing unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON answers obj encoded as JSON.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
