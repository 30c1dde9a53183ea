// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeOptionalJSON behaves like [DecodeJSON] but accepts an empty body.
*/
func DecodeOptionalJSON(request *http.Request, target interface{}) error {
	if request.Body == nil {
		return nil
	}
	err := json.NewDecoder(request.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return validate.ErrInvalidJSON
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUID retrieves a named URL parameter and checks that it is a UUID.

Returns:
  - string: The raw identifier
  - error: VALIDATION_ERROR when the parameter is not a UUID
*/
func UUID(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)
	if err := (&validate.Validator{}).UUID(name, id).Err(); err != nil {
		return "", err
	}
	return id, nil
}

/*
Int64 retrieves a named numeric URL parameter (item IDs).

Returns:
  - int64: The parsed value
  - error: VALIDATION_ERROR when the parameter is not a positive integer
*/
func Int64(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}
