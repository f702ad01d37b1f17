package auth

// Permission is an action on reports guarded by role.
type Permission int

const (
	PermCreateReports Permission = iota + 1
	PermViewPendingReports
	PermApproveReports
	PermRejectReports
	PermWorkAssignedReports
	PermDelegateExternal
	PermWorkExternalReports
	PermIssueLinkCode
)

var permissionNames = map[Permission]string{
	PermCreateReports:       "create_reports",
	PermViewPendingReports:  "view_pending_reports",
	PermApproveReports:      "approve_reports",
	PermRejectReports:       "reject_reports",
	PermWorkAssignedReports: "work_assigned_reports",
	PermDelegateExternal:    "delegate_external",
	PermWorkExternalReports: "work_external_reports",
	PermIssueLinkCode:       "issue_link_code",
}

func (p Permission) String() string {
	if n, ok := permissionNames[p]; ok {
		return n
	}
	return "unknown"
}

type permissionSet map[Permission]struct{}

func perms(ps ...Permission) permissionSet {
	s := make(permissionSet, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

var (
	staffPermissions = perms(PermWorkAssignedReports, PermDelegateExternal)

	systemPermissions = map[Role]permissionSet{
		RoleCitizen:                perms(PermCreateReports, PermIssueLinkCode),
		RoleAdministrator:          perms(),
		RolePublicRelationsOfficer: perms(PermViewPendingReports, PermApproveReports, PermRejectReports),
		RoleExternalMaintainer:     perms(PermWorkExternalReports),
		RoleDepartmentDirector:     perms(),
	}
)

// Can reports whether role r holds permission p. Unknown roles hold nothing.
func Can(r Role, p Permission) bool {
	if set, ok := systemPermissions[r]; ok {
		_, has := set[p]
		return has
	}
	if r.IsTechnicalStaff() {
		_, has := staffPermissions[p]
		return has
	}
	return false
}
