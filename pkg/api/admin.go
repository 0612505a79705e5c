package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type CategoryForm struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"base_price"`
	MinTime         int     `json:"min_time"`
	ServiceRate     float64 `json:"service_rate"`
	BookingRate     float64 `json:"booking_rate"`
	TransactionRate float64 `json:"transaction_rate"`
}

func (c *Client) AdminListCategories(ctx context.Context, page int) (CategoryPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var data CategoryPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/api/v1/admin/categories",
		query:      query,
		authorized: true,
		fallback:   "Failed to fetch categories",
	}, &data)
	if err != nil {
		return CategoryPage{}, err
	}

	if data.Categories == nil {
		return CategoryPage{}, missingFields("categories")
	}
	return data, nil
}

func (c *Client) AdminCreateCategory(ctx context.Context, form CategoryForm) error {
	return c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/api/v1/admin/categories",
		body:       form,
		authorized: true,
		fallback:   "Failed to create category",
	}, nil)
}

func (c *Client) AdminListProviders(ctx context.Context, status AccountStatus, page int) (ProviderPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("status", string(status))

	var data ProviderPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/api/v1/admin/providers",
		query:      query,
		authorized: true,
		fallback:   "Something went wrong fetching providers",
	}, &data)
	if err != nil {
		return ProviderPage{}, err
	}

	if data.Providers == nil {
		return ProviderPage{}, missingFields("providers")
	}
	return data, nil
}

func (c *Client) AdminListCustomers(ctx context.Context, status AccountStatus, page int) (CustomerPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("status", string(status))

	var data CustomerPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/api/v1/admin/customers",
		query:      query,
		authorized: true,
		fallback:   "Something went wrong fetching customers",
	}, &data)
	if err != nil {
		return CustomerPage{}, err
	}

	if data.Customers == nil {
		return CustomerPage{}, missingFields("customers")
	}
	return data, nil
}
