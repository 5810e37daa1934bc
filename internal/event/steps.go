package event

// Canonical step names.
const (
	// Auth
	StepLogin       = "LOGIN"
	StepRegister    = "REGISTER"
	StepLogout      = "LOGOUT"
	StepVerifyToken = "VERIFY_TOKEN"

	// Companies
	StepCreateCompany      = "CREATE_COMPANY"
	StepGetCompany         = "GET_COMPANY"
	StepUpdateCompany      = "UPDATE_COMPANY"
	StepDeleteCompany      = "DELETE_COMPANY"
	StepGetUserCompanies   = "GET_USER_COMPANIES"
	StepCheckCompanyAccess = "CHECK_COMPANY_ACCESS"

	// Jobs
	StepGetJobs          = "GET_JOBS"
	StepGetJobsPaginated = "GET_JOBS_PAGINATED"
	StepGetCompanyJobs   = "GET_COMPANY_JOBS"
	StepCreateJob        = "CREATE_JOB"
	StepUpdateJob        = "UPDATE_JOB"
	StepDeleteJob        = "DELETE_JOB"

	// Assets
	StepUploadLogo   = "UPLOAD_LOGO"
	StepUploadBanner = "UPLOAD_BANNER"
	StepDeleteLogo   = "DELETE_LOGO"
	StepDeleteBanner = "DELETE_BANNER"

	// AI enhancement
	StepEnhanceText     = "ENHANCE_TEXT"
	StepEnhanceTextList = "ENHANCE_TEXT_LIST"
	StepGenerateContent = "GENERATE_CONTENT"
)

// LegacyAliases maps historical un-namespaced step names (used by older admin
// clients) onto canonical steps. Both spellings hit the same handlers.
var LegacyAliases = map[string]string{
	"login":            StepLogin,
	"register":         StepRegister,
	"logout":           StepLogout,
	"verifyToken":      StepVerifyToken,
	"createCompany":    StepCreateCompany,
	"getCompany":       StepGetCompany,
	"updateCompany":    StepUpdateCompany,
	"deleteCompany":    StepDeleteCompany,
	"getUserCompanies": StepGetUserCompanies,
	"checkAccess":      StepCheckCompanyAccess,
	"getJobs":          StepGetJobs,
	"getJobsPaginated": StepGetJobsPaginated,
	"getCompanyJobs":   StepGetCompanyJobs,
	"createJob":        StepCreateJob,
	"updateJob":        StepUpdateJob,
	"deleteJob":        StepDeleteJob,
	"uploadLogo":       StepUploadLogo,
	"uploadBanner":     StepUploadBanner,
	"deleteLogo":       StepDeleteLogo,
	"deleteBanner":     StepDeleteBanner,
	"enhanceText":      StepEnhanceText,
	"enhanceTextList":  StepEnhanceTextList,
	"generateContent":  StepGenerateContent,
}
