// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// buildMultipartBody encodes a send request as multipart form data with the
// image file attached under the "image" field. The text fields mirror the
// JSON payload so the server parses both shapes the same way.
func buildMultipartBody(req SendRequest) (io.Reader, string, error) {
	f, err := os.Open(req.ImagePath)
	if err != nil {
		return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to open image", Cause: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("message", req.Message); err != nil {
		return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode form", Cause: err}
	}
	if req.Filters != "" {
		if err := w.WriteField("filters", req.Filters); err != nil {
			return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode form", Cause: err}
		}
	}
	if req.ChatID != "" {
		if err := w.WriteField("chat_id", req.ChatID); err != nil {
			return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode form", Cause: err}
		}
	}

	part, err := w.CreateFormFile("image", filepath.Base(req.ImagePath))
	if err != nil {
		return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode form", Cause: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read image", Cause: err}
	}

	if err := w.Close(); err != nil {
		return nil, "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to encode form", Cause: err}
	}

	return &buf, w.FormDataContentType(), nil
}
