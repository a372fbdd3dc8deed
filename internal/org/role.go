package org

import "slices"

// Role is a numeric role code assigned to an employee by the identity system.
type Role int

// Known role codes.
const (
	RoleSpecialist Role = 1 // RoleSpecialist is a line specialist, the regular shop customer.
	RoleManager    Role = 2 // RoleManager is a group manager.
	RoleDual       Role = 3 // RoleDual buys like a specialist and approves like a manager.
	RoleSupervisor Role = 5
	RoleDirector   Role = 6
)

// RoleSet is a closed set of roles.
type RoleSet []Role

// Contains reports whether role belongs to the set.
func (s RoleSet) Contains(role Role) bool {
	return slices.Contains(s, role)
}

// Role groups. Every role check in the module goes through these sets.
var (
	// BuyerRoles may spend points in the shop.
	BuyerRoles = RoleSet{RoleSpecialist, RoleDual}
	// ManagerRoles see the division-scoped activation queue.
	ManagerRoles = RoleSet{RoleManager, RoleDual}
	// ActivationRoles may open the activation queue at all.
	ActivationRoles = RoleSet{RoleManager, RoleDual, RoleSupervisor, RoleDirector}
)

// IsBuyer reports whether the role is a shop customer.
func (r Role) IsBuyer() bool { return BuyerRoles.Contains(r) }

// IsManagerOrDual reports whether the role is a manager or the dual role.
func (r Role) IsManagerOrDual() bool { return ManagerRoles.Contains(r) }

// IsActivationEligible reports whether the role may review activations.
func (r Role) IsActivationEligible() bool { return ActivationRoles.Contains(r) }

// Roles converts raw role codes into a RoleSet.
func Roles(codes []int32) RoleSet {
	if len(codes) == 0 {
		return nil
	}
	set := make(RoleSet, 0, len(codes))
	for _, code := range codes {
		set = append(set, Role(code))
	}
	return set
}

// Codes returns the raw role codes of the set.
func (s RoleSet) Codes() []int32 {
	codes := make([]int32, 0, len(s))
	for _, role := range s {
		codes = append(codes, int32(role))
	}
	return codes
}
