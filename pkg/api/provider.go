package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/export"
)

type ServiceForm struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Time        int     `json:"time"`
}

func (c *Client) ProviderListServices(ctx context.Context, provID int, page int) (ServicePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var data ServicePage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/providers/%d/services", provID),
		query:      query,
		authorized: true,
		fallback:   "Failed to fetch services !!",
	}, &data)
	if err != nil {
		return ServicePage{}, err
	}

	if data.Services == nil {
		return ServicePage{}, missingFields("services")
	}
	return data, nil
}

func (c *Client) ProviderCreateService(ctx context.Context, provID int, form ServiceForm) error {
	return c.do(ctx, request{
		method:     http.MethodPost,
		path:       fmt.Sprintf("/api/v1/providers/%d/services", provID),
		body:       form,
		authorized: true,
		fallback:   "Failed to create service !!",
	}, nil)
}

// ProviderContinueService re-lists a discontinued service.
func (c *Client) ProviderContinueService(ctx context.Context, provID int, serviceID int) error {
	return c.do(ctx, request{
		method:     http.MethodPatch,
		path:       fmt.Sprintf("/api/v1/providers/%d/services/%d", provID, serviceID),
		authorized: true,
		fallback:   "Failed to update service status!!",
	}, nil)
}

func (c *Client) ProviderDiscontinueService(ctx context.Context, provID int, serviceID int) error {
	return c.do(ctx, request{
		method:     http.MethodDelete,
		path:       fmt.Sprintf("/api/v1/providers/%d/services/%d", provID, serviceID),
		authorized: true,
		fallback:   "Failed to update service status!!",
	}, nil)
}

func (c *Client) ProviderListBookings(ctx context.Context, provID int, page int, status string) (BookingPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if status != "" {
		query.Set("status", status)
	}

	var data BookingPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/providers/%d/bookings", provID),
		query:      query,
		authorized: true,
		fallback:   "Something went wrong fetching bookings!!",
	}, &data)
	if err != nil {
		return BookingPage{}, err
	}

	if data.Bookings == nil {
		return BookingPage{}, missingFields("bookings")
	}
	return data, nil
}

func (c *Client) ProviderAcceptBooking(ctx context.Context, provID int, bookingID int) error {
	return c.do(ctx, request{
		method:     http.MethodPatch,
		path:       fmt.Sprintf("/api/v1/providers/%d/bookings/%d", provID, bookingID),
		authorized: true,
		fallback:   "Something went wrong accepting booking!!",
	}, nil)
}

func (c *Client) ProviderRejectBooking(ctx context.Context, provID int, bookingID int) error {
	return c.do(ctx, request{
		method:     http.MethodDelete,
		path:       fmt.Sprintf("/api/v1/providers/%d/bookings/%d", provID, bookingID),
		authorized: true,
		fallback:   "Something went wrong rejecting booking!!",
	}, nil)
}

func (c *Client) ProviderGetProfile(ctx context.Context, provID int) (Profile, error) {
	var data struct {
		Profile *Profile `json:"profile"`
	}
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/providers/%d/profile", provID),
		authorized: true,
		fallback:   "Something went wrong fetching profile!!",
	}, &data)
	if err != nil {
		return Profile{}, err
	}

	if data.Profile == nil {
		return Profile{}, missingFields("profile")
	}
	return *data.Profile, nil
}

func (c *Client) ProviderUpdateProfile(ctx context.Context, provID int, profile Profile) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       fmt.Sprintf("/api/v1/providers/%d/profile", provID),
		body:       profile,
		authorized: true,
		fallback:   "Something went wrong updating profile!!",
	}, nil)
}

// ProviderRequestClosedBookingsExport kicks off the server-side CSV export
// of closed bookings. The server answers 202 with a bare task snapshot,
// not the usual envelope; polling the returned job id observes progress.
func (c *Client) ProviderRequestClosedBookingsExport(ctx context.Context, provID int) (export.Job, error) {
	var job export.Job
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       fmt.Sprintf("/api/v1/providers/%d/closed-bookings/export", provID),
		authorized: true,
		raw:        true,
		fallback:   "Something went wrong requesting export!!",
	}, &job)
	if err != nil {
		return export.Job{}, err
	}

	if job.ID == "" {
		return export.Job{}, oerrors.New(oerrors.CodeMalformedResponse, "Export task response has no id!!")
	}
	return job, nil
}

// ProviderExportStatus reports the state of a running export task. It is
// the poll tick used by export.Poller.
func (c *Client) ProviderExportStatus(provID int) export.StatusFunc {
	return func(ctx context.Context, jobID string) (export.Job, error) {
		var job export.Job
		err := c.do(ctx, request{
			method:     http.MethodGet,
			path:       fmt.Sprintf("/api/v1/providers/%d/closed-bookings/export/%s", provID, jobID),
			authorized: true,
			fallback:   "Something went wrong fetching export status!!",
		}, &job)
		if err != nil {
			return export.Job{}, err
		}
		return job, nil
	}
}
