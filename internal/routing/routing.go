// Package routing maps report categories to the department and role that handle them.
package routing

import (
	"participium/internal/auth"
	"participium/internal/domain"
)

// Route is the department/role pair responsible for a category.
type Route struct {
	Category   domain.Category
	Department string
	Role       auth.Role
}

var table = []Route{
	{domain.CategoryWaterSupply, "Water Network Department", auth.RoleWaterNetworkStaff},
	{domain.CategorySewerSystem, "Sewer Department", auth.RoleSewerSystemStaff},
	{domain.CategoryRoads, "Road Maintenance Department", auth.RoleRoadMaintenanceStaff},
	{domain.CategoryTrafficSignals, "Traffic Management Department", auth.RoleTrafficManagementStaff},
	{domain.CategoryPublicLighting, "Public Lighting Department", auth.RoleElectricalStaff},
	{domain.CategoryArchitectural, "Building Maintenance Department", auth.RoleBuildingMaintenanceStaff},
	{domain.CategoryWaste, "Recycling Department", auth.RoleRecyclingProgramStaff},
	{domain.CategoryGreenAreas, "Parks Department", auth.RoleParksMaintenanceStaff},
	{domain.CategoryOther, "General Services Department", auth.RoleGeneralServicesStaff},
}

var byCategory = func() map[domain.Category]Route {
	m := make(map[domain.Category]Route, len(table))
	for _, r := range table {
		m[r.Category] = r
	}
	return m
}()

// Lookup returns the route for category c.
func Lookup(c domain.Category) (Route, error) {
	r, ok := byCategory[c]
	if !ok {
		return Route{}, domain.BadRequest(domain.ReasonInvalidCategory, "Invalid category")
	}
	return r, nil
}

// Routes returns a copy of the whole table.
func Routes() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}
