package routeguard

import "codearena-gateway/internal/domain/identity"

// The three role-scoped route tables. These are static declarations: the
// router compiles them into gin routes with the guard middleware attached,
// and tests iterate them to pin guard behavior per table.

// AuthRoutes are the public authentication surfaces. They carry no role set;
// the public guard redirects authenticated visitors to their landing page.
var AuthRoutes = []Rule{
	{Path: PathLogin},
	{Path: PathRegister},
	{Path: PathOTPVerify},
	{Path: PathForgotPassword},
	{Path: PathResetPassword},
	{Path: PathAdminLogin},
}

// UserRoutes are the standard dashboard views, open to regular users and
// group leaders.
var UserRoutes = []Rule{
	{Path: PathDashboard, AllowedRoles: []identity.Role{identity.RoleUser, identity.RoleLeader}},
	{Path: PathGroups, AllowedRoles: []identity.Role{identity.RoleUser, identity.RoleLeader}},
	{Path: PathGroupDetail, AllowedRoles: []identity.Role{identity.RoleUser, identity.RoleLeader}},
	{Path: PathCompetition, AllowedRoles: []identity.Role{identity.RoleUser, identity.RoleLeader}},
}

// AdminRoutes are restricted to administrators and use the admin login
// surface as their unauthenticated target.
var AdminRoutes = []Rule{
	{Path: PathAdminRoot, AllowedRoles: []identity.Role{identity.RoleAdmin}, RedirectTo: PathAdminLogin},
	{Path: PathAdminUsers, AllowedRoles: []identity.Role{identity.RoleAdmin}, RedirectTo: PathAdminLogin},
	{Path: PathAdminGroups, AllowedRoles: []identity.Role{identity.RoleAdmin}, RedirectTo: PathAdminLogin},
}
