// Package validate holds the client-side form validators. Each validator
// is pure: it fills the per-field error collector (empty string = valid)
// and returns whether the whole form is valid. The first failing rule for
// a field wins.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/urbanaid/urbanaid-go/pkg/session"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

type LoginForm struct {
	Username string
	Password string
}

type LoginFormErrors struct {
	Username string
	Password string
}

func ValidateLoginForm(form *LoginForm, formErrors *LoginFormErrors) bool {
	if form == nil || formErrors == nil {
		return false
	}

	switch {
	case form.Username == "":
		formErrors.Username = "Username is required"
	case len(form.Username) < 3:
		formErrors.Username = "Username must be at least 3 characters long"
	default:
		formErrors.Username = ""
	}

	switch {
	case form.Password == "":
		formErrors.Password = "Password is required"
	case len(form.Password) < 6:
		formErrors.Password = "Password must be at least 6 characters long"
	default:
		formErrors.Password = ""
	}

	return formErrors.Username == "" && formErrors.Password == ""
}

type RegisterForm struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	Gender          string
	Location        string
	Contact         string

	// Provider-only fields, validated when the role is provider.
	Category   string
	Experience string
}

type RegisterFormErrors struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	Gender          string
	Location        string
	Contact         string
	Category        string
	Experience      string
}

func ValidateRegisterForm(form *RegisterForm, formErrors *RegisterFormErrors, role session.Role) bool {
	if form == nil || formErrors == nil {
		return false
	}

	switch {
	case form.Email == "":
		formErrors.Email = "Email is required"
	case !emailPattern.MatchString(form.Email):
		formErrors.Email = "Invalid email"
	default:
		formErrors.Email = ""
	}

	switch {
	case form.Username == "":
		formErrors.Username = "Username is required"
	case len(form.Username) < 3:
		formErrors.Username = "Username must be at least 3 characters long"
	default:
		formErrors.Username = ""
	}

	switch {
	case form.Password == "":
		formErrors.Password = "Password is required"
	case len(form.Password) < 6:
		formErrors.Password = "Password must be at least 6 characters long"
	default:
		formErrors.Password = ""
	}

	switch {
	case form.ConfirmPassword == "":
		formErrors.ConfirmPassword = "Confirm Password is required"
	case form.Password != form.ConfirmPassword:
		formErrors.ConfirmPassword = "Confirm password should match with password"
	default:
		formErrors.ConfirmPassword = ""
	}

	if form.Gender == "" {
		formErrors.Gender = "Select gender"
	} else {
		formErrors.Gender = ""
	}

	switch {
	case form.Location == "":
		formErrors.Location = "Location is required"
	case len(form.Location) < 5:
		formErrors.Location = "Please provide valid location, at least 5 characters long"
	default:
		formErrors.Location = ""
	}

	switch {
	case form.Contact == "":
		formErrors.Contact = "Contact is required"
	case len(form.Contact) != 10 || !digitsPattern.MatchString(form.Contact):
		formErrors.Contact = "Please provide valid contact number, 10 characters long"
	default:
		formErrors.Contact = ""
	}

	if role == session.RoleProvider {
		if form.Category == "" {
			formErrors.Category = "Select category"
		} else {
			formErrors.Category = ""
		}

		switch {
		case form.Experience == "":
			formErrors.Experience = "Experience is required"
		case !digitsPattern.MatchString(strings.TrimPrefix(form.Experience, "-")) || strings.HasPrefix(form.Experience, "-"):
			formErrors.Experience = "Please provide valid experience"
		default:
			formErrors.Experience = ""
		}
	}

	return !anyError(
		formErrors.Email,
		formErrors.Username,
		formErrors.Password,
		formErrors.ConfirmPassword,
		formErrors.Gender,
		formErrors.Location,
		formErrors.Contact,
		formErrors.Category,
		formErrors.Experience,
	)
}

type BookingForm struct {
	BookDate        time.Time
	FulfillmentDate time.Time
}

type BookingFormErrors struct {
	BookDate        string
	FulfillmentDate string
}

func ValidateBookingForm(form *BookingForm, formErrors *BookingFormErrors) bool {
	return validateBookingFormAt(form, formErrors, time.Now())
}

func validateBookingFormAt(form *BookingForm, formErrors *BookingFormErrors, now time.Time) bool {
	if form == nil || formErrors == nil {
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case form.BookDate.IsZero():
		formErrors.BookDate = "Book date is required"
	case form.BookDate.Before(today):
		formErrors.BookDate = "Select valid book date"
	default:
		formErrors.BookDate = ""
	}

	switch {
	case form.FulfillmentDate.IsZero():
		formErrors.FulfillmentDate = "Fulfillment date is required"
	case !form.BookDate.IsZero() && form.FulfillmentDate.Before(form.BookDate):
		formErrors.FulfillmentDate = "Select valid fulfillment date"
	default:
		formErrors.FulfillmentDate = ""
	}

	return !anyError(formErrors.BookDate, formErrors.FulfillmentDate)
}

type ServiceForm struct {
	Name        string
	Description string
	Price       float64
	Time        int
}

type ServiceFormErrors struct {
	Name        string
	Description string
	Price       string
	Time        string
}

func ValidateServiceForm(form *ServiceForm, formErrors *ServiceFormErrors) bool {
	if form == nil || formErrors == nil {
		return false
	}

	switch {
	case form.Name == "":
		formErrors.Name = "Name is required"
	case len(form.Name) < 3:
		formErrors.Name = "Name must be at least 3 characters long"
	default:
		formErrors.Name = ""
	}

	if form.Description == "" {
		formErrors.Description = "Description is required"
	} else {
		formErrors.Description = ""
	}

	switch {
	case form.Price == 0:
		formErrors.Price = "Price is required"
	case form.Price < 100:
		formErrors.Price = "Price should be above 100 INR"
	default:
		formErrors.Price = ""
	}

	switch {
	case form.Time == 0:
		formErrors.Time = "Min time is required"
	case form.Time < 1:
		formErrors.Time = "Minimum time required is 1 hr"
	default:
		formErrors.Time = ""
	}

	return !anyError(formErrors.Name, formErrors.Description, formErrors.Price, formErrors.Time)
}

type CategoryForm struct {
	Name            string
	Description     string
	BasePrice       float64
	MinTime         int
	ServiceRate     float64
	BookingRate     float64
	TransactionRate float64
}

type CategoryFormErrors struct {
	Name            string
	Description     string
	BasePrice       string
	MinTime         string
	ServiceRate     string
	BookingRate     string
	TransactionRate string
}

func ValidateCategoryForm(form *CategoryForm, formErrors *CategoryFormErrors) bool {
	if form == nil || formErrors == nil {
		return false
	}

	switch {
	case form.Name == "":
		formErrors.Name = "Name is required"
	case len(form.Name) < 3:
		formErrors.Name = "Name must be at least 3 characters long"
	default:
		formErrors.Name = ""
	}

	if form.Description == "" {
		formErrors.Description = "Description is required"
	} else {
		formErrors.Description = ""
	}

	switch {
	case form.BasePrice == 0:
		formErrors.BasePrice = "Base price is required"
	case form.BasePrice < 100:
		formErrors.BasePrice = "Base Price should be above 100 INR"
	default:
		formErrors.BasePrice = ""
	}

	switch {
	case form.MinTime == 0:
		formErrors.MinTime = "Min time is required"
	case form.MinTime < 1:
		formErrors.MinTime = "Minimum time required is 1 hr"
	default:
		formErrors.MinTime = ""
	}

	formErrors.ServiceRate = validateRate(form.ServiceRate, "Service rate")
	formErrors.BookingRate = validateRate(form.BookingRate, "Booking rate")
	formErrors.TransactionRate = validateRate(form.TransactionRate, "Transaction rate")

	return !anyError(
		formErrors.Name,
		formErrors.Description,
		formErrors.BasePrice,
		formErrors.MinTime,
		formErrors.ServiceRate,
		formErrors.BookingRate,
		formErrors.TransactionRate,
	)
}

func validateRate(rate float64, label string) string {
	switch {
	case rate == 0:
		return label + " is required"
	case rate < 1:
		return label + " should be above 1 %"
	}
	return ""
}

func anyError(messages ...string) bool {
	for _, message := range messages {
		if message != "" {
			return true
		}
	}
	return false
}
