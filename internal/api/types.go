package api

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// User is the signed-in account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup is the registration form.
type Signup struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
}

// Token is the login result.
type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
}

// ExtensionType tells how a blocked extension is managed.
type ExtensionType string

const (
	ExtensionFixed  ExtensionType = "fixed"  // toggled on and off
	ExtensionCustom ExtensionType = "custom" // always blocked while present
)

// FixedExtension is an extension from the fixed list. The backend reports its
// state as "blocked"; an absent field means allowed.
type FixedExtension struct {
	ID        int64  `json:"id"`
	Extension string `json:"extension"`
	IsBlocked bool   `json:"isBlocked"`
}

func (f *FixedExtension) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        int64  `json:"id"`
		Extension string `json:"extension"`
		Blocked   *bool  `json:"blocked"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.ID = raw.ID
	f.Extension = raw.Extension
	f.IsBlocked = raw.Blocked != nil && *raw.Blocked
	return nil
}

// CustomExtension is a user-added extension. Custom extensions are always
// blocked.
type CustomExtension struct {
	ID        int64  `json:"id"`
	Extension string `json:"extension"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	ID               int64  `json:"id"`
	OriginalFilename string `json:"originalFilename"`
	StoredFilename   string `json:"storedFilename,omitempty"`
	FileSize         int64  `json:"fileSize"`
	ContentType      string `json:"contentType,omitempty"`
	UploadedAt       string `json:"uploadedAt,omitempty"`
}

// Item is an inventory record.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// ItemInput is the writable subset of Item.
type ItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// ItemQuery filters an inventory listing. Zero fields are not sent.
type ItemQuery struct {
	Page     int
	Size     int
	Name     string
	Category string
	Sort     string
}

// Values encodes the query string.
func (q ItemQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}
