package placement

import "time"

// Company is a recruiter profile. Name is unique.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"company_name"`
	Description string    `json:"company_description,omitempty"`
	Website     string    `json:"company_website,omitempty"`
	Location    string    `json:"company_location,omitempty"`
	Difficulty  string    `json:"company_difficulty,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanyUpdate carries the allow-listed mutable company fields. Nil means
// "leave unchanged".
type CompanyUpdate struct {
	Name        *string
	Description *string
	Website     *string
	Location    *string
	Difficulty  *string
}

// Job is a posting attached to a company.
type Job struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"job_title"`
	Description string    `json:"job_description,omitempty"`
	Salary      string    `json:"job_salary,omitempty"`
	LastDate    time.Time `json:"application_closes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobUpdate carries the allow-listed mutable job fields.
type JobUpdate struct {
	Title       *string
	Description *string
	Salary      *string
	LastDate    *time.Time
}

// Notice is a board announcement. Append/list/delete only.
type Notice struct {
	ID           string    `json:"id"`
	Sender       string    `json:"sender"`
	SenderRole   string    `json:"sender_role"`
	ReceiverRole string    `json:"receiver_role"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Alumni placement statuses.
const (
	StatusPlaced        = "Placed"
	StatusHigherStudies = "Higher Studies"
	StatusEntrepreneur  = "Entrepreneur"
	StatusNotPlaced     = "Not Placed"
	StatusOther         = "Other"
)

// Departments recognised for alumni records.
var Departments = []string{"Computer", "Civil", "ECS", "AIDS", "Mechanical"}

// Alumni is a denormalized snapshot of a former student's placement
// outcome. It lives independently of the User it may reference.
type Alumni struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id,omitempty"`
	FirstName       string    `json:"first_name"`
	MiddleName      string    `json:"middle_name,omitempty"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	UIN             string    `json:"uin"`
	Department      string    `json:"department"`
	PassingYear     int       `json:"passing_year"`
	PlacementStatus string    `json:"placement_status"`
	CompanyID       string    `json:"company_id,omitempty"`
	CompanyName     string    `json:"company_name,omitempty"`
	JobTitle        string    `json:"job_title,omitempty"`
	PackageLPA      float64   `json:"package_lpa,omitempty"`
	JobLocation     string    `json:"job_location,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	LastUpdatedBy   string    `json:"last_updated_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AlumniUpdate carries the allow-listed mutable alumni fields.
type AlumniUpdate struct {
	FirstName       *string
	MiddleName      *string
	LastName        *string
	Email           *string
	UIN             *string
	Department      *string
	PassingYear     *int
	PlacementStatus *string
	CompanyID       *string
	CompanyName     *string
	JobTitle        *string
	PackageLPA      *float64
	JobLocation     *string
	LastUpdatedBy   *string
}

// AlumniFilter narrows alumni listings.
type AlumniFilter struct {
	PassingYear     *int
	Department      string
	PlacementStatus string
}

// PlacementRecord is a per-company placement count for one year, used only
// as aggregation input for the report.
type PlacementRecord struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	Year        int    `json:"year"`
	TotalPlaced int    `json:"total_placed"`
}

// ReportRow is one grouped line of the placement report.
type ReportRow struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	Year        int    `json:"year"`
	TotalPlaced int    `json:"totalPlaced"`
}

// Report is the placement summary view.
type Report struct {
	Rows         []ReportRow `json:"placementReport"`
	OverallTotal int         `json:"overallTotal"`
	Top          *ReportRow  `json:"topCompany"`
	Years        []int       `json:"years"`
}
