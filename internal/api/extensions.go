package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type extensionBody struct {
	Extension string `json:"extension"`
}

type toggleBody struct {
	Extension string `json:"extension"`
	IsBlocked bool   `json:"isBlocked"`
}

// FixedExtensions lists the fixed extensions and their state.
func (c *Client) FixedExtensions(ctx context.Context) ([]FixedExtension, error) {
	var exts []FixedExtension
	err := c.call(ctx, http.MethodGet, "/api/extensions/fixed", nil, &exts)
	return exts, err
}

// SetFixedExtensionBlocked blocks or allows a fixed extension.
func (c *Client) SetFixedExtensionBlocked(ctx context.Context, ext string, blocked bool) error {
	return c.call(ctx, http.MethodPut, "/api/extensions/fixed", toggleBody{Extension: ext, IsBlocked: blocked}, nil)
}

// AddFixedExtension appends ext to the fixed list.
func (c *Client) AddFixedExtension(ctx context.Context, ext string) (FixedExtension, error) {
	var out FixedExtension
	err := c.call(ctx, http.MethodPost, "/api/extensions/fixed", extensionBody{Extension: ext}, &out)
	return out, err
}

// DeleteFixedExtension removes a fixed extension.
func (c *Client) DeleteFixedExtension(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/extensions/fixed/%d", id), nil, nil)
}

// ResetFixedExtensions restores the built-in fixed list.
func (c *Client) ResetFixedExtensions(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/extensions/fixed/reset", nil, nil)
}

// CustomExtensions lists the custom extensions.
func (c *Client) CustomExtensions(ctx context.Context) ([]CustomExtension, error) {
	var exts []CustomExtension
	err := c.call(ctx, http.MethodGet, "/api/extensions/custom", nil, &exts)
	return exts, err
}

// AddCustomExtension blocks ext as a custom extension.
func (c *Client) AddCustomExtension(ctx context.Context, ext string) (CustomExtension, error) {
	var out CustomExtension
	err := c.call(ctx, http.MethodPost, "/api/extensions/custom", extensionBody{Extension: ext}, &out)
	return out, err
}

// DeleteCustomExtension removes a custom extension by ID.
func (c *Client) DeleteCustomExtension(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/extensions/custom/%d", id), nil, nil)
}

// DeleteCustomExtensionByName removes a custom extension by name.
func (c *Client) DeleteCustomExtensionByName(ctx context.Context, ext string) error {
	return c.call(ctx, http.MethodDelete, "/api/extensions/custom/extension/"+url.PathEscape(ext), nil, nil)
}

// DeleteAllCustomExtensions clears the custom list.
func (c *Client) DeleteAllCustomExtensions(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/api/extensions/custom/all", nil, nil)
}

// CheckExtension reports whether the backend blocks ext.
func (c *Client) CheckExtension(ctx context.Context, ext string) (bool, error) {
	var blocked bool
	err := c.call(ctx, http.MethodGet, "/api/extensions/check/"+url.PathEscape(ext), nil, &blocked)
	return blocked, err
}

// ExtensionTypeOf reports which list ext belongs to.
func (c *Client) ExtensionTypeOf(ctx context.Context, ext string) (ExtensionType, error) {
	var typ ExtensionType
	err := c.call(ctx, http.MethodGet, "/api/extensions/type/"+url.PathEscape(ext), nil, &typ)
	return typ, err
}
