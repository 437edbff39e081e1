package v1alpha1

// JobStatus is the backend-reported lifecycle state of an analysis job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusError      JobStatus = "ERROR"
	JobStatusFailed     JobStatus = "FAILED"
)

func StringToJobStatus(s string) JobStatus {
	switch s {
	case string(JobStatusQueued):
		return JobStatusQueued
	case string(JobStatusProcessing):
		return JobStatusProcessing
	case string(JobStatusCompleted):
		return JobStatusCompleted
	case string(JobStatusError):
		return JobStatusError
	case string(JobStatusFailed):
		return JobStatusFailed
	default:
		return JobStatusPending
	}
}

// Terminal reports whether no further status transitions are expected.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError || s == JobStatusFailed
}

// UploadTarget is the pre-authorized write destination returned by the
// upload-url endpoint.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// UploadRequest asks the backend for an UploadTarget.
type UploadRequest struct {
	FileName   string `json:"fileName"`
	ReportType string `json:"reportType"`
}

// CoverageJobCreate triggers the coverage analysis worker for an
// uploaded document.
type CoverageJobCreate struct {
	AuditID     string `json:"auditId"`
	S3Key       string `json:"s3Key"`
	ReportType  string `json:"reportType"`
	ProjectName string `json:"projectName"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	UserRole    string `json:"userRole"`
}

// EstimatorForm is the production-parameter bag submitted to the
// success estimator. Field names follow the backend contract.
type EstimatorForm struct {
	ProjectName      string `json:"projectName"`
	Genre            string `json:"genre"`
	ProductionType   string `json:"productionType"`
	ReleaseType      string `json:"releaseType"`
	ProductionBudget int64  `json:"productionBudget"`
	MarketingBudget  int64  `json:"marketingBudget"`
	LocationCountry  string `json:"locationCountry"`
	LocationCity     string `json:"locationCity"`
	LocationState    string `json:"locationState"`
	LocationBudget   int64  `json:"locationBudget"`
	Director         string `json:"director"`
	Producer         string `json:"producer"`
	LeadActor        string `json:"leadActor"`
	CastStrength     int    `json:"castStrength"`
	SoundBudget      int64  `json:"soundBudget"`
	LeadStylist      string `json:"leadStylist"`
	WardrobeBudget   int64  `json:"wardrobeBudget"`
	Notes            string `json:"notes"`
}

// EstimatorJobCreate is the body of the estimator job-creation call.
type EstimatorJobCreate struct {
	FormData EstimatorForm `json:"formData"`
}

// EstimatorJobCreated is the handshake response carrying the job id.
type EstimatorJobCreated struct {
	AuditID string `json:"auditId"`
}

// RedriveRequest re-triggers analysis for an existing estimator job.
type RedriveRequest struct {
	AuditID     string `json:"auditId"`
	ProjectName string `json:"projectName"`
	IsRedrive   bool   `json:"isRedrive"`
}

// ContactInquiry is the contact-form payload.
type ContactInquiry struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	Goals     string `json:"goals"`
}

// CoverageRecord is one row of the coverage portfolio listing.
type CoverageRecord struct {
	ID             string  `json:"id"`
	ReportDate     string  `json:"reportDate"`
	AuditName      string  `json:"auditName"`
	Resource       string  `json:"resource"`
	Reporter       string  `json:"reporter"`
	SubmitterEmail string  `json:"submitterEmail"`
	SubmitterRole  string  `json:"submitterRole"`
	ReportType     string  `json:"reportType"`
	SuccessGauge   float64 `json:"successGauge"`
}

// CoverageList is the envelope of the coverage portfolio endpoint.
type CoverageList struct {
	Audits []CoverageRecord `json:"audits"`
}

// EstimatorRecord is one row of the estimator portfolio listing.
type EstimatorRecord struct {
	AuditID       string  `json:"auditId"`
	ProjectName   string  `json:"projectName"`
	Status        string  `json:"status"`
	Score         float64 `json:"score"`
	LastUpdatedAt string  `json:"lastUpdatedAt"`
	Verdict       string  `json:"verdict"`
	ReportURL     string  `json:"reportUrl,omitempty"`
}

// EstimatorList is the envelope of the estimator portfolio endpoint.
type EstimatorList struct {
	Records []EstimatorRecord `json:"records"`
}
