package baas

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BanForever is the ban duration used when none is given, about 100 years.
const BanForever = "876000h"

// User is an auth user as returned by the admin API.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	BannedUntil  *time.Time     `json:"banned_until,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// IsBanned reports whether the ban is still running at now.
func (u *User) IsBanned(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// UserPage is one page of ListUsers.
type UserPage struct {
	Users []User
	Total int
}

// ListUsers returns page (1 based) of perPage users and the total user count.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 1)))
	q.Set("per_page", strconv.Itoa(max(perPage, 1)))

	var body struct {
		Users []User `json:"users"`
	}

	resp, err := c.do(ctx, http.MethodGet, adminUsersPath+"?"+q.Encode(), nil, &body)
	if err != nil {
		return nil, err
	}

	out := &UserPage{Users: body.Users, Total: len(body.Users)}
	if out.Users == nil {
		out.Users = []User{}
	}

	if total, convErr := strconv.Atoi(resp.Header.Get("X-Total-Count")); convErr == nil {
		out.Total = total
	}

	return out, nil
}

// GetUser returns the user with id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserIDEmpty
	}

	var u User
	if _, err := c.do(ctx, http.MethodGet, userPath(id), nil, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// BanUser bans the user for duration, a Go style duration like "24h".
// An empty duration bans for BanForever.
func (c *Client) BanUser(ctx context.Context, id, duration string) error {
	if duration == "" {
		duration = BanForever
	}

	if d, err := time.ParseDuration(duration); err != nil || d <= 0 {
		return ErrInvalidBanDuration
	}

	return c.updateBan(ctx, id, duration)
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(ctx context.Context, id string) error {
	return c.updateBan(ctx, id, "none")
}

func (c *Client) updateBan(ctx context.Context, id, duration string) error {
	if strings.TrimSpace(id) == "" {
		return ErrUserIDEmpty
	}

	_, err := c.do(ctx, http.MethodPut, userPath(id), map[string]string{"ban_duration": duration}, nil)

	return err
}

// DeleteUser removes the auth user. App data cascades in the database.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrUserIDEmpty
	}

	_, err := c.do(ctx, http.MethodDelete, userPath(id), nil, nil)

	return err
}

// CountUsers returns the total number of users.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	page, err := c.ListUsers(ctx, 1, 1)
	if err != nil {
		return 0, err
	}

	return page.Total, nil
}

func userPath(id string) string {
	return adminUsersPath + "/" + url.PathEscape(id)
}
