package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Token, error) {
	var tok Token
	err := c.call(ctx, http.MethodPost, "/api/auth/login", creds, &tok)
	return tok, err
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, s Signup) (User, error) {
	var u User
	err := c.call(ctx, http.MethodPost, "/api/auth/signup", s, &u)
	return u, err
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}
