package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type BookingForm struct {
	BookDate        string `json:"book_date"`
	FulfillmentDate string `json:"fullfillment_date"`
}

type PaymentForm struct {
	Mode string `json:"mode"`
}

func (c *Client) CustomerCreateBooking(ctx context.Context, custID int, serviceID int, form BookingForm) error {
	body := struct {
		ServiceID int `json:"service_id"`
		BookingForm
	}{ServiceID: serviceID, BookingForm: form}

	return c.do(ctx, request{
		method:     http.MethodPost,
		path:       fmt.Sprintf("/api/v1/customers/%d/bookings", custID),
		body:       body,
		authorized: true,
		fallback:   "Something went wrong creating booking!!",
	}, nil)
}

func (c *Client) CustomerListBookings(ctx context.Context, custID int, page int, status string) (BookingPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if status != "" {
		query.Set("status", status)
	}

	var data BookingPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/customers/%d/bookings", custID),
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

func (c *Client) CustomerGetPayment(ctx context.Context, custID int, paymentID int) (Payment, error) {
	var data struct {
		Payment *Payment `json:"payment"`
	}
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/customers/%d/payments/%d", custID, paymentID),
		authorized: true,
		fallback:   "Something went wrong fetching payment details!!",
	}, &data)
	if err != nil {
		return Payment{}, err
	}

	if data.Payment == nil {
		return Payment{}, missingFields("payment")
	}
	return *data.Payment, nil
}

func (c *Client) CustomerConfirmPayment(ctx context.Context, custID int, paymentID int, form PaymentForm) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       fmt.Sprintf("/api/v1/customers/%d/payments/%d", custID, paymentID),
		body:       form,
		authorized: true,
		fallback:   "Something went wrong confirming payment!!",
	}, nil)
}

func (c *Client) CustomerCancelPayment(ctx context.Context, custID int, paymentID int) error {
	return c.do(ctx, request{
		method:     http.MethodDelete,
		path:       fmt.Sprintf("/api/v1/customers/%d/payments/%d", custID, paymentID),
		authorized: true,
		fallback:   "Something went wrong cancelling payment!!",
	}, nil)
}

func (c *Client) CustomerCompleteBooking(ctx context.Context, custID int, bookingID int) error {
	return c.do(ctx, request{
		method:     http.MethodPatch,
		path:       fmt.Sprintf("/api/v1/customers/%d/bookings/%d", custID, bookingID),
		authorized: true,
		fallback:   "Something went wrong completing booking!!",
	}, nil)
}

func (c *Client) CustomerGetProfile(ctx context.Context, custID int) (Profile, error) {
	var data struct {
		Profile *Profile `json:"profile"`
	}
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       fmt.Sprintf("/api/v1/customers/%d/profile", custID),
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

func (c *Client) CustomerUpdateProfile(ctx context.Context, custID int, profile Profile) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       fmt.Sprintf("/api/v1/customers/%d/profile", custID),
		body:       profile,
		authorized: true,
		fallback:   "Something went wrong updating profile!!",
	}, nil)
}
