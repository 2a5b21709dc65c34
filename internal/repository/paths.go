package repository

// Endpoint paths on the admin backend, relative to the configured base URL.
const (
	PathListProjects  = "/api/getProjects.php"
	PathGetProject    = "/getProjects.php"
	PathCreateProject = "/api/add_project.php"
	PathCreateLegacy  = "/add_project.php"
	PathUpdateProject = "/admin/updateProject.php"
	PathListDonations = "/api/view_donations.php"
	PathListTopUps    = "/api/get_topups.php"
	PathListPending   = "/get_pending_accounts.php"
	PathDecideAccount = "/update_pending_account.php"
)
