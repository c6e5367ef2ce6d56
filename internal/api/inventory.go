package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListItems returns one page of inventory.
func (c *Client) ListItems(ctx context.Context, q ItemQuery) (Page[Item], error) {
	endpoint := "/api/inventory"
	if params := q.Values().Encode(); params != "" {
		endpoint += "?" + params
	}

	var page Page[Item]
	err := c.call(ctx, http.MethodGet, endpoint, nil, &page)
	return page, err
}

// GetItem returns a single item.
func (c *Client) GetItem(ctx context.Context, id int64) (Item, error) {
	var item Item
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/inventory/%d", id), nil, &item)
	return item, err
}

// CreateItem adds an item.
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	var item Item
	err := c.call(ctx, http.MethodPost, "/api/inventory", in, &item)
	return item, err
}

// UpdateItem replaces an item's fields.
func (c *Client) UpdateItem(ctx context.Context, id int64, in ItemInput) (Item, error) {
	var item Item
	err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/inventory/%d", id), in, &item)
	return item, err
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), nil, nil)
}

// ItemsByCategory lists every item in category.
func (c *Client) ItemsByCategory(ctx context.Context, category string) ([]Item, error) {
	var items []Item
	err := c.call(ctx, http.MethodGet, "/api/inventory/category/"+url.PathEscape(category), nil, &items)
	return items, err
}

// ItemCount returns the number of inventory records.
func (c *Client) ItemCount(ctx context.Context) (int64, error) {
	var n int64
	err := c.call(ctx, http.MethodGet, "/api/inventory/count", nil, &n)
	return n, err
}
