// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

// MaxJSONBody bounds JSON request bodies.
const MaxJSONBody = 1 << 20

// ErrFileTooLarge reports an uploaded file over the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// BodyError is a malformed request body.
type BodyError struct {
	Message string
	Err     error
}

func (e *BodyError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *BodyError) Unwrap() error { return e.Err }

// allowedImageExts are the upload extensions accepted for images.
var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// DecodeJSON decodes a single JSON object from the body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return &BodyError{Message: "Request body is empty", Err: err}
		default:
			return &BodyError{Message: "Invalid JSON body", Err: err}
		}
	}
	if dec.More() {
		return &BodyError{Message: "Invalid JSON body", Err: errors.New("trailing data")}
	}
	return nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// Form is a parsed multipart form. Field accessors return nil for absent
// fields so the result can be used as a change set.
type Form struct {
	values  map[string][]string
	files   map[string][]*multipart.FileHeader
	maxFile int64
	errs    model.ValidationErrors
}

// ParseForm parses a multipart body. maxFile bounds each uploaded file; the
// whole body may be up to maxFile plus MaxJSONBody.
func ParseForm(w http.ResponseWriter, r *http.Request, maxFile int64) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+MaxJSONBody)
	if err := r.ParseMultipartForm(maxFile); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &BodyError{Message: "Invalid form data", Err: err}
	}
	return &Form{values: r.MultipartForm.Value, files: r.MultipartForm.File, maxFile: maxFile}, nil
}

// Err returns the field errors collected while reading typed fields.
func (f *Form) Err() error { return f.errs.Err() }

// String returns the first value of name, or nil when absent.
func (f *Form) String(name string) *string {
	v, ok := f.values[name]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

// List returns the values of name. Repeated fields and a single
// comma-separated value are both accepted; "name[]" is read as well.
func (f *Form) List(name string) *[]string {
	raw, ok := f.values[name]
	if !ok {
		raw, ok = f.values[name+"[]"]
	}
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return &out
}

// Bool parses name as true/false/1/0/on/off.
func (f *Form) Bool(name string) *bool {
	s := f.String(name)
	if s == nil {
		return nil
	}
	b, ok := ParseBool(*s)
	if !ok {
		f.errs.Add(name, "Must be true or false")
		return nil
	}
	return &b
}

// Int parses name as a base-10 integer.
func (f *Form) Int(name string) *int64 {
	s := f.String(name)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		f.errs.Add(name, "Must be a whole number")
		return nil
	}
	return &n
}

// Time parses name as RFC 3339. An empty value yields nil.
func (f *Form) Time(name string) *time.Time {
	s := f.String(name)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		f.errs.Add(name, "Must be an RFC 3339 timestamp")
		return nil
	}
	return &t
}

// Image reads the uploaded file name, or returns nil when none was sent.
func (f *Form) Image(name string) (*service.ImageUpload, error) {
	headers := f.files[name]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	if fh.Size > f.maxFile {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return nil, model.ValidationErrors{{Field: name, Message: "Only image files are allowed"}}
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, model.ValidationErrors{{Field: name, Message: "Only image files are allowed"}}
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, f.maxFile+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > f.maxFile {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}
	return &service.ImageUpload{Filename: fh.Filename, Data: data}, nil
}

// ParseBool accepts true/false/1/0/on/off/yes/no, case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, true
	case "false", "0", "off", "no", "":
		return false, true
	}
	return false, false
}
