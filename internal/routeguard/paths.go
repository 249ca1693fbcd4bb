package routeguard

// Route path constants. All navigable paths are defined here so the route
// tables, the guard's redirect targets and the default-redirect resolver can
// never drift apart.
const (
	PathRoot = "/"

	// Auth surfaces
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathOTPVerify      = "/otp-verify"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathAdminLogin     = "/admin/login"

	// User views
	PathDashboard   = "/dashboard"
	PathGroups      = "/groups"
	PathGroupDetail = "/groups/:group_id"
	PathCompetition = "/groups/:group_id/competition/:competition_id"

	// Admin views
	PathAdminRoot   = "/admin"
	PathAdminUsers  = "/admin/users"
	PathAdminGroups = "/admin/groups"
)
