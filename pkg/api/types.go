package api

import (
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

type Category struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	BasePrice       float64 `json:"base_price,omitempty"`
	MinTime         int     `json:"min_time,omitempty"`
	ServiceRate     float64 `json:"service_rate,omitempty"`
	BookingRate     float64 `json:"booking_rate,omitempty"`
	TransactionRate float64 `json:"transaction_rate,omitempty"`
}

type Service struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Time         int     `json:"time"`
	Discontinued bool    `json:"is_discontinued,omitempty"`
}

type Booking struct {
	ID              int     `json:"id"`
	ServiceID       int     `json:"service_id"`
	ServiceName     string  `json:"service,omitempty"`
	Status          string  `json:"status,omitempty"`
	BookDate        string  `json:"book_date,omitempty"`
	FulfillmentDate string  `json:"fullfillment_date,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
}

type Payment struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status,omitempty"`
	Mode   string  `json:"mode,omitempty"`
}

type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

type ProviderAccount struct {
	ID         int    `json:"id"`
	Username   string `json:"username,omitempty"`
	Category   string `json:"category,omitempty"`
	Experience int    `json:"experience,omitempty"`
	IsApproved bool   `json:"is_approved"`
	IsBlocked  bool   `json:"is_blocked"`
}

type CustomerAccount struct {
	ID        int    `json:"id"`
	Username  string `json:"username,omitempty"`
	IsBlocked bool   `json:"is_blocked"`
}

type CategoryPage struct {
	Categories []Category `json:"categories"`
	Page       int        `json:"page,omitempty"`
	TotalPages int        `json:"total_pages,omitempty"`
}

type ServicePage struct {
	Services   []Service `json:"services"`
	Page       int       `json:"page,omitempty"`
	TotalPages int       `json:"total_pages,omitempty"`
}

type BookingPage struct {
	Bookings   []Booking `json:"bookings"`
	Page       int       `json:"page,omitempty"`
	TotalPages int       `json:"total_pages,omitempty"`
}

type ProviderPage struct {
	Providers  []ProviderAccount `json:"providers"`
	Page       int               `json:"page,omitempty"`
	TotalPages int               `json:"total_pages,omitempty"`
}

type CustomerPage struct {
	Customers  []CustomerAccount `json:"customers"`
	Page       int               `json:"page,omitempty"`
	TotalPages int               `json:"total_pages,omitempty"`
}

type loginData struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *session.UserPayload `json:"user"`
}

type tokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountStatus filters admin account listings.
type AccountStatus string

const (
	AccountStatusApproved    AccountStatus = "approved"
	AccountStatusNotApproved AccountStatus = "not-approved"
	AccountStatusBlocked     AccountStatus = "blocked"
)
