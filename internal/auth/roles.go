package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of platform roles. Values are the stored role names.
type Role string

const (
	RoleCitizen                Role = "citizen"
	RoleAdministrator          Role = "administrator"
	RolePublicRelationsOfficer Role = "municipal public relations officer"
	RoleExternalMaintainer     Role = "external maintainer"
	RoleDepartmentDirector     Role = "department director"

	// Technical staff roles, one per routing table entry.
	RoleWaterNetworkStaff        Role = "water network staff member"
	RoleSewerSystemStaff         Role = "sewer system staff member"
	RoleRoadMaintenanceStaff     Role = "road maintenance staff member"
	RoleTrafficManagementStaff   Role = "traffic management staff member"
	RoleElectricalStaff          Role = "electrical staff member"
	RoleBuildingMaintenanceStaff Role = "building maintenance and accessibility staff member"
	RoleRecyclingProgramStaff    Role = "recycling program staff member"
	RoleParksMaintenanceStaff    Role = "parks maintenance staff member"
	RoleGeneralServicesStaff     Role = "general services staff member"
)

var allRoles = []Role{
	RoleCitizen,
	RoleAdministrator,
	RolePublicRelationsOfficer,
	RoleExternalMaintainer,
	RoleDepartmentDirector,
	RoleWaterNetworkStaff,
	RoleSewerSystemStaff,
	RoleRoadMaintenanceStaff,
	RoleTrafficManagementStaff,
	RoleElectricalStaff,
	RoleBuildingMaintenanceStaff,
	RoleRecyclingProgramStaff,
	RoleParksMaintenanceStaff,
	RoleGeneralServicesStaff,
}

// ParseRole maps a stored or user-supplied role name to a Role.
// Matching ignores case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, r := range allRoles {
		if string(r) == norm {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Roles returns every known role.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// IsSystem reports whether r is one of the non-technical system roles.
func (r Role) IsSystem() bool {
	switch r {
	case RoleCitizen, RoleAdministrator, RolePublicRelationsOfficer, RoleExternalMaintainer, RoleDepartmentDirector:
		return true
	}
	return false
}

// IsTechnicalStaff reports whether r is a department staff role.
func (r Role) IsTechnicalStaff() bool {
	if r.IsSystem() {
		return false
	}
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// DisplayName returns the role name with its first letter capitalised.
func (r Role) DisplayName() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
