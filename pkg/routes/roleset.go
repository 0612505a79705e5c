package routes

import (
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

// RoleSet is a bitmask over the three marketplace roles, used as the
// allowed-roles metadata on a route.
type RoleSet uint8

const (
	RoleSetAdmin RoleSet = 1 << iota
	RoleSetCustomer
	RoleSetProvider
)

var roleBits = map[session.Role]RoleSet{
	session.RoleAdmin:    RoleSetAdmin,
	session.RoleCustomer: RoleSetCustomer,
	session.RoleProvider: RoleSetProvider,
}

func Roles(roles ...session.Role) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set |= roleBits[role]
	}
	return set
}

func (s RoleSet) Has(role session.Role) bool {
	return s&roleBits[role] != 0
}

func (s RoleSet) Empty() bool {
	return s == 0
}
