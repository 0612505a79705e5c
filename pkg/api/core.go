package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListCategories fetches the public category listing. onlyNames trims the
// payload down for registration forms.
func (c *Client) ListCategories(ctx context.Context, page int, onlyNames bool) (CategoryPage, error) {
	query := url.Values{}
	if onlyNames {
		query.Set("only_names", "true")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	var data CategoryPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/v1/categories",
		query:    query,
		fallback: "Something went wrong while fetching category data",
	}, &data)
	if err != nil {
		return CategoryPage{}, err
	}

	if data.Categories == nil {
		return CategoryPage{}, missingFields("categories")
	}
	return data, nil
}
