package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Files lists the uploaded files.
func (c *Client) Files(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo
	err := c.call(ctx, http.MethodGet, "/api/files", nil, &files)
	return files, err
}

// UploadFile sends r as a multipart upload named filename.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (FileInfo, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return FileInfo{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return FileInfo{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return FileInfo{}, fmt.Errorf("close multipart writer: %w", err)
	}

	const endpoint = "/api/files/upload"
	resp, err := c.send(ctx, http.MethodPost, endpoint, &buf, mw.FormDataContentType())
	if err != nil {
		return FileInfo{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var info FileInfo
	err = c.decode(ctx, resp, endpoint, &info)
	return info, err
}

// DownloadFile streams the content of file id into w.
func (c *Client) DownloadFile(ctx context.Context, id int64, w io.Writer) (int64, error) {
	endpoint := fmt.Sprintf("/api/files/%d/download", id)
	resp, err := c.send(ctx, http.MethodGet, endpoint, nil, "application/json")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, c.decode(ctx, resp, endpoint, nil)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download file %d: %w", id, err)
	}
	return n, nil
}

// DeleteFile removes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/files/%d", id), nil, nil)
}
