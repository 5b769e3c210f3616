package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParams(t *testing.T) {
	cases := []struct {
		query      string
		page       int
		limit      int
		wantOffset int
	}{
		{"", 1, DefaultLimit, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=-5", 1, DefaultLimit, 0},
		{"?page=2&limit=1000", 2, MaxLimit, MaxLimit},
		{"?page=abc", 1, DefaultLimit, 0},
	}

	for _, tc := range cases {
		var got *Params
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			got = GetParams(c)
			return nil
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		resp.Body.Close()

		require.NotNil(t, got, tc.query)
		assert.Equal(t, tc.page, got.Page, tc.query)
		assert.Equal(t, tc.limit, got.Limit, tc.query)
		assert.Equal(t, tc.wantOffset, got.Offset, tc.query)
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(NewParams(2, 10), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = GetMeta(NewParams(1, 10), 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
