package store

import "time"

// Post is a published or draft article. Author and Category are embedded
// in API responses the same way the store returns them: joined on every
// post read.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    *string   `json:"excerpt"`
	Content    string    `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Published  bool      `json:"published"`
	AuthorID   string    `json:"authorId"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Author     *Author   `json:"author,omitempty"`
	Category   *Category `json:"category,omitempty"`
}

// Author writes posts. Created by seed or import, read-mostly after.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Category groups posts under a unique slug.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorWithCount is an author row annotated with its post count.
type AuthorWithCount struct {
	Author
	PostCount int `json:"postCount"`
}

// CategoryWithCount is a category row annotated with its post count.
type CategoryWithCount struct {
	Category
	PostCount int `json:"postCount"`
}

// ListFilter narrows and pages the post listing. Zero values mean
// "first page, default size, published only, no filters".
type ListFilter struct {
	Page         int
	Limit        int
	CategorySlug string
	AuthorID     string
	All          bool
}

const (
	defaultLimit = 10
	maxLimit     = 20
)

// normalize clamps page and limit into their valid ranges.
func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

// CreatePostParams carries the fields required to create a post.
type CreatePostParams struct {
	Title      string
	Slug       string
	Excerpt    *string
	Content    string
	CoverImage *string
	Published  bool
	AuthorID   string
	CategoryID string
}

// UpdatePostParams carries a partial field set; nil pointers leave the
// column untouched.
type UpdatePostParams struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	CoverImage *string
	Published  *bool
	AuthorID   *string
	CategoryID *string
}

// UpsertPostParams is the import payload: posts keyed by slug, fully
// overwritten on conflict.
type UpsertPostParams struct {
	Title      string
	Slug       string
	Excerpt    *string
	Content    string
	Published  bool
	AuthorID   string
	CategoryID string
}
