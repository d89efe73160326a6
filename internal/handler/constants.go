package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home/catalog page.
	RouteRoot = "/"
	// RouteRegister is the registration form action.
	RouteRegister = "/register"
	// RouteLogin is the login form action.
	RouteLogin = "/login"
	// RouteLogout logs the user out.
	RouteLogout = "/logout"
	// RouteBuy is the purchase action pattern.
	RouteBuy = "/buy/{packageID}"
	// RouteCourse is the gated course page pattern.
	RouteCourse = "/course/{packageID}"
	// RouteCourseUpload is the in-course admin upload pattern.
	RouteCourseUpload = "/course/{packageID}/upload"
	// RouteAdmin is the admin credential form / dashboard.
	RouteAdmin = "/admin"
	// RouteAdminUploadPage is the standalone admin upload form page.
	RouteAdminUploadPage = "/admin/upload_video.html"
	// RouteAdminUpload is the admin upload action.
	RouteAdminUpload = "/admin/upload_video"
	// RouteAdminDelete is the admin video deletion pattern.
	RouteAdminDelete = "/admin/delete_video/{id}"
	// RouteAdminLogout drops the admin session flag.
	RouteAdminLogout = "/admin/logout"
	// RouteHealth is the liveness probe.
	RouteHealth = "/health"
)
