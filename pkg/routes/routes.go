// Package routes carries the navigable route table and the authorization
// guard that gates entry into each route.
package routes

import (
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

// Route names. Navigation decisions refer to routes by name.
const (
	RouteHome             = "home"
	RouteLogin            = "login"
	RouteRegister         = "register"
	RouteLogout           = "logout"
	RouteExploreCategories = "explore-categories"
	RouteExploreCategory   = "explore-category"
	RouteExploreServices   = "explore-listed-services"
	RouteExploreService    = "explore-service"

	RouteAdminDashboard   = "admin-dashboard"
	RouteAdminCategories  = "admin-categories"
	RouteAdminServices    = "admin-services"
	RouteAdminProviders   = "admin-providers"
	RouteAdminCustomers   = "admin-customers"
	RouteAdminBookings    = "admin-bookings"
	RouteAdminPayments    = "admin-payments"

	RouteCustomerDashboard = "customer-dashboard"
	RouteCustomerBlocked   = "customer-blocked"

	RouteProviderDashboard   = "provider-dashboard"
	RouteProviderNotApproved = "provider-not-approved"
	RouteProviderBlocked     = "provider-blocked"

	RouteUnauthorized = "unauthorized"
	RouteServerError  = "server-error"
	RouteNotFound     = "not-found"
)

// Ownership marks routes whose path encodes a subject id that must match
// the authenticated identity's subject for the corresponding role.
type Ownership int

const (
	OwnershipNone Ownership = iota
	OwnershipCustomer
	OwnershipProvider
)

// Route is an immutable navigable route definition.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	AllowedRoles RoleSet
	Ownership    Ownership

	// Terminal views (blocked, not-approved, unauthorized) are reachable
	// without re-running subject checks, so a redirect to them cannot
	// loop.
	Terminal bool

	// GuestOnly routes bounce already-authenticated users away.
	GuestOnly bool
}

// Table returns the route definitions mirroring the application's
// navigation surface.
func Table() []Route {
	return []Route{
		{Name: RouteHome, Path: "/"},
		{Name: RouteExploreCategories, Path: "/categories"},
		{Name: RouteExploreCategory, Path: "/categories/:catId"},
		{Name: RouteExploreServices, Path: "/services"},
		{Name: RouteExploreService, Path: "/services/:serviceId"},

		{Name: RouteLogin, Path: "/auth/login", GuestOnly: true},
		{Name: RouteRegister, Path: "/auth/register/:role", GuestOnly: true},
		{Name: RouteLogout, Path: "/auth/logout"},

		{Name: RouteAdminDashboard, Path: "/admin", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminCategories, Path: "/admin/categories", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminServices, Path: "/admin/services", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminProviders, Path: "/admin/providers", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminCustomers, Path: "/admin/customers", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminBookings, Path: "/admin/bookings", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},
		{Name: RouteAdminPayments, Path: "/admin/payments", RequiresAuth: true, AllowedRoles: Roles(session.RoleAdmin)},

		{Name: RouteCustomerDashboard, Path: "/customers/:custId", RequiresAuth: true, AllowedRoles: Roles(session.RoleCustomer), Ownership: OwnershipCustomer},
		{Name: RouteCustomerBlocked, Path: "/customers/:custId/blocked", RequiresAuth: true, AllowedRoles: Roles(session.RoleCustomer), Terminal: true},

		{Name: RouteProviderDashboard, Path: "/providers/:provId", RequiresAuth: true, AllowedRoles: Roles(session.RoleProvider), Ownership: OwnershipProvider},
		{Name: RouteProviderNotApproved, Path: "/providers/:provId/not-approved", RequiresAuth: true, AllowedRoles: Roles(session.RoleProvider), Terminal: true},
		{Name: RouteProviderBlocked, Path: "/providers/:provId/blocked", RequiresAuth: true, AllowedRoles: Roles(session.RoleProvider), Terminal: true},

		{Name: RouteUnauthorized, Path: "/unauthorized", Terminal: true},
		{Name: RouteServerError, Path: "/500"},
		{Name: RouteNotFound, Path: "/:catchAll"},
	}
}

// Lookup finds a route by name in the default table.
func Lookup(name string) (Route, bool) {
	for _, route := range Table() {
		if route.Name == name {
			return route, true
		}
	}
	return Route{}, false
}

// DashboardFor picks the post-login landing route for an identity, with
// the subject id for routes that encode one in the path.
func DashboardFor(identity session.Identity) (name string, subjectID int) {
	switch identity.Role {
	case session.RoleAdmin:
		return RouteAdminDashboard, 0
	case session.RoleProvider:
		if identity.Provider.ID != nil {
			subjectID = *identity.Provider.ID
		}
		return RouteProviderDashboard, subjectID
	case session.RoleCustomer:
		if identity.Customer.ID != nil {
			subjectID = *identity.Customer.ID
		}
		return RouteCustomerDashboard, subjectID
	}
	return RouteHome, 0
}
