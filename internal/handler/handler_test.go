package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pressroom/internal/feed"
	"github.com/dmitrymomot/pressroom/internal/handler"
	"github.com/dmitrymomot/pressroom/internal/store"
	"github.com/dmitrymomot/pressroom/pkg/health"
	"github.com/dmitrymomot/pressroom/pkg/logger"
)

// fakeStorage implements handler.Storage through overridable function
// fields; unset fields answer "not found" or empty.
type fakeStorage struct {
	listFn               func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error)
	listAllFn            func(ctx context.Context) ([]store.Post, error)
	getPublishedBySlugFn func(ctx context.Context, slug string) (store.Post, error)
	createFn             func(ctx context.Context, params store.CreatePostParams) (store.Post, error)
	updateFn             func(ctx context.Context, id string, params store.UpdatePostParams) (store.Post, error)
	deleteFn             func(ctx context.Context, id string) error
	upsertFn             func(ctx context.Context, params store.UpsertPostParams) (store.Post, error)
	listCategoriesFn     func(ctx context.Context) ([]store.CategoryWithCount, error)
	getCategoryBySlugFn  func(ctx context.Context, slug string) (store.Category, error)
	deleteCategoryFn     func(ctx context.Context, id string) error
	listAuthorsFn        func(ctx context.Context) ([]store.AuthorWithCount, error)
	getAuthorFn          func(ctx context.Context, id string) (store.Author, error)
	deleteAuthorFn       func(ctx context.Context, id string) error
}

func (f *fakeStorage) List(ctx context.Context, filter store.ListFilter) ([]store.Post, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeStorage) ListAll(ctx context.Context) ([]store.Post, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeStorage) GetPublishedBySlug(ctx context.Context, slug string) (store.Post, error) {
	if f.getPublishedBySlugFn != nil {
		return f.getPublishedBySlugFn(ctx, slug)
	}
	return store.Post{}, store.ErrNotFound
}

func (f *fakeStorage) Create(ctx context.Context, params store.CreatePostParams) (store.Post, error) {
	if f.createFn != nil {
		return f.createFn(ctx, params)
	}
	return store.Post{}, store.ErrNotFound
}

func (f *fakeStorage) Update(ctx context.Context, id string, params store.UpdatePostParams) (store.Post, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, params)
	}
	return store.Post{}, store.ErrNotFound
}

func (f *fakeStorage) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return store.ErrNotFound
}

func (f *fakeStorage) Upsert(ctx context.Context, params store.UpsertPostParams) (store.Post, error) {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, params)
	}
	return store.Post{}, store.ErrNotFound
}

func (f *fakeStorage) ListCategories(ctx context.Context) ([]store.CategoryWithCount, error) {
	if f.listCategoriesFn != nil {
		return f.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (f *fakeStorage) GetCategoryBySlug(ctx context.Context, slug string) (store.Category, error) {
	if f.getCategoryBySlugFn != nil {
		return f.getCategoryBySlugFn(ctx, slug)
	}
	return store.Category{}, store.ErrNotFound
}

func (f *fakeStorage) DeleteCategory(ctx context.Context, id string) error {
	if f.deleteCategoryFn != nil {
		return f.deleteCategoryFn(ctx, id)
	}
	return store.ErrNotFound
}

func (f *fakeStorage) ListAuthors(ctx context.Context) ([]store.AuthorWithCount, error) {
	if f.listAuthorsFn != nil {
		return f.listAuthorsFn(ctx)
	}
	return nil, nil
}

func (f *fakeStorage) GetAuthor(ctx context.Context, id string) (store.Author, error) {
	if f.getAuthorFn != nil {
		return f.getAuthorFn(ctx, id)
	}
	return store.Author{}, store.ErrNotFound
}

func (f *fakeStorage) DeleteAuthor(ctx context.Context, id string) error {
	if f.deleteAuthorFn != nil {
		return f.deleteAuthorFn(ctx, id)
	}
	return store.ErrNotFound
}

type fakeIngestor struct {
	fn func(ctx context.Context, urls []string, authorID, categoryID string) (feed.Result, error)
}

func (f *fakeIngestor) Ingest(ctx context.Context, urls []string, authorID, categoryID string) (feed.Result, error) {
	return f.fn(ctx, urls, authorID, categoryID)
}

func newRouter(st handler.Storage, ingestor handler.Ingestor) http.Handler {
	h := handler.New(st, ingestor, logger.NewNope())
	return h.Router(handler.Config{CORSAllowOrigins: []string{"*"}}, health.Checks{})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func samplePost(slug string) store.Post {
	return store.Post{
		ID:         "11111111-1111-1111-1111-111111111111",
		Title:      "Sample",
		Slug:       slug,
		Content:    "body",
		Published:  true,
		AuthorID:   "a-1",
		CategoryID: "c-1",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestListPosts(t *testing.T) {
	t.Run("defaults and meta", func(t *testing.T) {
		var gotFilter store.ListFilter
		st := &fakeStorage{listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
			gotFilter = f
			return []store.Post{samplePost("a")}, 25, nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts", "")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 1, gotFilter.Page)
		assert.Equal(t, 10, gotFilter.Limit)
		assert.False(t, gotFilter.All)

		var resp struct {
			Data []store.Post `json:"data"`
			Meta struct {
				Page       int `json:"page"`
				Limit      int `json:"limit"`
				Total      int `json:"total"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 25, resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("query params map to the filter", func(t *testing.T) {
		var gotFilter store.ListFilter
		st := &fakeStorage{listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
			gotFilter = f
			return nil, 0, nil
		}}

		doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts?page=2&limit=5&category=teknik&author=a-1&all=true", "")

		assert.Equal(t, store.ListFilter{Page: 2, Limit: 5, CategorySlug: "teknik", AuthorID: "a-1", All: true}, gotFilter)
	})

	t.Run("limit clamped to 20", func(t *testing.T) {
		var gotFilter store.ListFilter
		st := &fakeStorage{listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
			gotFilter = f
			return nil, 0, nil
		}}

		doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts?limit=100&page=0", "")
		assert.Equal(t, 20, gotFilter.Limit)
		assert.Equal(t, 1, gotFilter.Page)
	})

	t.Run("page past the end returns empty data", func(t *testing.T) {
		st := &fakeStorage{listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
			return []store.Post{}, 25, nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts?page=4", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []store.Post `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
	})
}

func TestGetPost(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		st := &fakeStorage{getPublishedBySlugFn: func(ctx context.Context, slug string) (store.Post, error) {
			require.Equal(t, "hello-world", slug)
			return samplePost(slug), nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts/hello-world", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"slug":"hello-world"`)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodGet, "/api/posts/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Post not found"}`, rec.Body.String())
	})

	t.Run("render adds contentHtml", func(t *testing.T) {
		st := &fakeStorage{getPublishedBySlugFn: func(ctx context.Context, slug string) (store.Post, error) {
			p := samplePost(slug)
			p.Content = "# Heading"
			return p, nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts/hello-world?render=true", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			ContentHTML string `json:"contentHtml"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.ContentHTML, "<h1>Heading</h1>")
	})
}

func TestCreatePost(t *testing.T) {
	valid := `{"title":"T","slug":"t","content":"c","authorId":"a-1","categoryId":"c-1"}`

	t.Run("created", func(t *testing.T) {
		st := &fakeStorage{createFn: func(ctx context.Context, params store.CreatePostParams) (store.Post, error) {
			assert.True(t, params.Published)
			return samplePost(params.Slug), nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodPost, "/api/posts", valid)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodPost, "/api/posts", `{"title":"only"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "required")
	})

	t.Run("duplicate slug is a conflict, not a generic 500", func(t *testing.T) {
		st := &fakeStorage{createFn: func(ctx context.Context, params store.CreatePostParams) (store.Post, error) {
			return store.Post{}, store.ErrDuplicateSlug
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodPost, "/api/posts", valid)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"slug already in use"}`, rec.Body.String())
	})

	t.Run("unknown author is a client error", func(t *testing.T) {
		st := &fakeStorage{createFn: func(ctx context.Context, params store.CreatePostParams) (store.Post, error) {
			return store.Post{}, store.ErrInvalidReference
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodPost, "/api/posts", valid)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdatePost(t *testing.T) {
	t.Run("only provided fields are passed through", func(t *testing.T) {
		var got store.UpdatePostParams
		st := &fakeStorage{updateFn: func(ctx context.Context, id string, params store.UpdatePostParams) (store.Post, error) {
			got = params
			return samplePost("t"), nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodPut, "/api/posts/p-1", `{"title":"New","published":false}`)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, got.Title)
		assert.Equal(t, "New", *got.Title)
		require.NotNil(t, got.Published)
		assert.False(t, *got.Published)
		assert.Nil(t, got.Content)
		assert.Nil(t, got.Slug)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodPut, "/api/posts/p-404", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		st := &fakeStorage{deleteFn: func(ctx context.Context, id string) error {
			assert.Equal(t, "p-1", id)
			return nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodDelete, "/api/posts/p-1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodDelete, "/api/posts/p-404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportPosts(t *testing.T) {
	st := &fakeStorage{listAllFn: func(ctx context.Context) ([]store.Post, error) {
		return []store.Post{samplePost("a"), samplePost("b")}, nil
	}}

	rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/posts/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="blog-export.json"`, rec.Header().Get("Content-Disposition"))

	var resp struct {
		ExportedAt time.Time    `json:"exportedAt"`
		Posts      []store.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.ExportedAt.IsZero())
	assert.Len(t, resp.Posts, 2)
}

func TestImportPosts(t *testing.T) {
	t.Run("empty posts array", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodPost, "/api/posts/import", `{"posts":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid items are skipped", func(t *testing.T) {
		var upserted []string
		st := &fakeStorage{upsertFn: func(ctx context.Context, params store.UpsertPostParams) (store.Post, error) {
			upserted = append(upserted, params.Slug)
			return samplePost(params.Slug), nil
		}}

		body := `{"posts":[
			{"title":"A","slug":"a","content":"x","authorId":"a-1","categoryId":"c-1"},
			{"title":"missing-the-rest"},
			{"title":"B","slug":"b","content":"y","authorId":"a-1","categoryId":"c-1"}
		]}`
		rec := doJSON(t, newRouter(st, nil), http.MethodPost, "/api/posts/import", body)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, []string{"a", "b"}, upserted)

		var resp struct {
			Imported int `json:"imported"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Imported)
	})
}

func TestFetchFeeds(t *testing.T) {
	t.Run("missing parameters", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, &fakeIngestor{}), http.MethodPost, "/api/posts/fetch-feeds", `{"feedUrls":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		ingestor := &fakeIngestor{fn: func(ctx context.Context, urls []string, authorID, categoryID string) (feed.Result, error) {
			return feed.Result{}, feed.ErrUnknownAuthor
		}}

		rec := doJSON(t, newRouter(&fakeStorage{}, ingestor), http.MethodPost, "/api/posts/fetch-feeds",
			`{"feedUrls":["https://a.example/rss"],"authorId":"ghost","categoryId":"c-1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid authorId or categoryId"}`, rec.Body.String())
	})

	t.Run("result passthrough with per-feed errors", func(t *testing.T) {
		ingestor := &fakeIngestor{fn: func(ctx context.Context, urls []string, authorID, categoryID string) (feed.Result, error) {
			return feed.Result{Added: 3, Updated: 2, Total: 5, Errors: []string{"https://bad.example/rss: status code 404"}}, nil
		}}

		rec := doJSON(t, newRouter(&fakeStorage{}, ingestor), http.MethodPost, "/api/posts/fetch-feeds",
			`{"feedUrls":["https://a.example/rss","https://bad.example/rss"],"authorId":"a-1","categoryId":"c-1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp feed.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 5, resp.Total)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "bad.example")
	})

	t.Run("errors omitted when empty", func(t *testing.T) {
		ingestor := &fakeIngestor{fn: func(ctx context.Context, urls []string, authorID, categoryID string) (feed.Result, error) {
			return feed.Result{Added: 1, Total: 1}, nil
		}}

		rec := doJSON(t, newRouter(&fakeStorage{}, ingestor), http.MethodPost, "/api/posts/fetch-feeds",
			`{"feedUrls":["https://a.example/rss"],"authorId":"a-1","categoryId":"c-1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "errors")
	})
}

func TestCategories(t *testing.T) {
	t.Run("list with counts", func(t *testing.T) {
		st := &fakeStorage{listCategoriesFn: func(ctx context.Context) ([]store.CategoryWithCount, error) {
			return []store.CategoryWithCount{
				{Category: store.Category{ID: "c-1", Name: "Teknik", Slug: "teknik"}, PostCount: 7},
			}, nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/categories", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postCount":7`)
	})

	t.Run("posts in category", func(t *testing.T) {
		st := &fakeStorage{
			getCategoryBySlugFn: func(ctx context.Context, slug string) (store.Category, error) {
				return store.Category{ID: "c-1", Name: "Teknik", Slug: slug}, nil
			},
			listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
				assert.Equal(t, "teknik", f.CategorySlug)
				assert.False(t, f.All)
				return []store.Post{samplePost("a")}, 1, nil
			},
		}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/categories/teknik/posts", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"category"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodGet, "/api/categories/nope/posts", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Category not found"}`, rec.Body.String())
	})

	t.Run("delete with posts is restricted", func(t *testing.T) {
		st := &fakeStorage{deleteCategoryFn: func(ctx context.Context, id string) error {
			return store.ErrRestricted
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodDelete, "/api/categories/c-1", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"category still has posts"}`, rec.Body.String())
	})

	t.Run("delete empty category", func(t *testing.T) {
		st := &fakeStorage{deleteCategoryFn: func(ctx context.Context, id string) error { return nil }}

		rec := doJSON(t, newRouter(st, nil), http.MethodDelete, "/api/categories/c-2", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAuthors(t *testing.T) {
	t.Run("list with counts", func(t *testing.T) {
		st := &fakeStorage{listAuthorsFn: func(ctx context.Context) ([]store.AuthorWithCount, error) {
			return []store.AuthorWithCount{
				{Author: store.Author{ID: "a-1", Name: "Ayşe Yazar", Email: "yazar@blog.local"}, PostCount: 3},
			}, nil
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/authors", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postCount":3`)
	})

	t.Run("posts by author", func(t *testing.T) {
		st := &fakeStorage{
			getAuthorFn: func(ctx context.Context, id string) (store.Author, error) {
				return store.Author{ID: id, Name: "Ayşe Yazar"}, nil
			},
			listFn: func(ctx context.Context, f store.ListFilter) ([]store.Post, int, error) {
				assert.Equal(t, "a-1", f.AuthorID)
				return []store.Post{samplePost("a")}, 1, nil
			},
		}

		rec := doJSON(t, newRouter(st, nil), http.MethodGet, "/api/authors/a-1/posts", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"author"`)
	})

	t.Run("unknown author", func(t *testing.T) {
		rec := doJSON(t, newRouter(&fakeStorage{}, nil), http.MethodGet, "/api/authors/ghost/posts", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete with posts is restricted", func(t *testing.T) {
		st := &fakeStorage{deleteAuthorFn: func(ctx context.Context, id string) error {
			return store.ErrRestricted
		}}

		rec := doJSON(t, newRouter(st, nil), http.MethodDelete, "/api/authors/a-1", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"author still has posts"}`, rec.Body.String())
	})
}
