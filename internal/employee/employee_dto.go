package employee

type CreateEmployeeRequest struct {
	ExternalID    string `json:"external_id" binding:"required,max=50"`
	FullName      string `json:"full_name" binding:"required,max=200"`
	Email         string `json:"email" binding:"required,email"`
	MobileNumber  string `json:"mobile_number" binding:"omitempty,max=20"`
	Gender        string `json:"gender" binding:"required,oneof=Male Female Other"`
	Role          string `json:"role" binding:"required,oneof=Employee HOD Admin CEO"`
	EmployeeType  string `json:"employee_type" binding:"required,oneof=Confirmed Intern Contractual Probation"`
	Department    string `json:"department" binding:"required,max=100"`
	Designation   string `json:"designation" binding:"omitempty,max=100"`
	DateOfJoining string `json:"date_of_joining" binding:"required"`
}

// UpdateEmployeeRequest is a partial update; absent fields are left untouched.
type UpdateEmployeeRequest struct {
	FullName          *string `json:"full_name" binding:"omitempty,max=200"`
	Email             *string `json:"email" binding:"omitempty,email"`
	MobileNumber      *string `json:"mobile_number" binding:"omitempty,max=20"`
	Gender            *string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Department        *string `json:"department" binding:"omitempty,max=100"`
	Designation       *string `json:"designation" binding:"omitempty,max=100"`
	DateOfJoining     *string `json:"date_of_joining"`
	EmployeeType      *string `json:"employee_type" binding:"omitempty,oneof=Confirmed Intern Contractual Probation"`
	PANNumber         *string `json:"pan_number" binding:"omitempty,max=20"`
	UANNumber         *string `json:"uan_number" binding:"omitempty,max=20"`
	PaymentType       *string `json:"payment_type" binding:"omitempty,max=20"`
	BankAccountNumber *string `json:"bank_account_number" binding:"omitempty,max=30"`
	ProfilePicture    *string `json:"profile_picture" binding:"omitempty,max=300"`
}

type UpdateLocksRequest struct {
	Sections map[Section]bool `json:"sections" binding:"required,min=1"`
}

type EmployeeResponse struct {
	ID             string           `json:"id"`
	ExternalID     string           `json:"external_id"`
	FullName       string           `json:"full_name"`
	Email          string           `json:"email"`
	MobileNumber   string           `json:"mobile_number,omitempty"`
	Gender         string           `json:"gender"`
	Role           string           `json:"role"`
	EmployeeType   string           `json:"employee_type"`
	Department     string           `json:"department"`
	Designation    string           `json:"designation,omitempty"`
	DateOfJoining  string           `json:"date_of_joining"`
	Active         bool             `json:"active"`
	Locks          map[Section]bool `json:"locks"`
	EditableFields []string         `json:"editable_fields"`
}

type EmployeeOptionResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func mapToResponse(e Employee) EmployeeResponse {
	editable := EditableFields(e)
	if editable == nil {
		editable = []string{}
	}
	return EmployeeResponse{
		ID:             e.ID.String(),
		ExternalID:     e.ExternalID,
		FullName:       e.FullName,
		Email:          e.Email,
		MobileNumber:   e.MobileNumber,
		Gender:         string(e.Gender),
		Role:           string(e.Role),
		EmployeeType:   string(e.EmployeeType),
		Department:     e.Department,
		Designation:    e.Designation,
		DateOfJoining:  e.DateOfJoining.Format("2006-01-02"),
		Active:         e.Active,
		Locks:          Locks(e),
		EditableFields: editable,
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}

func mapToOptions(rows []Employee) []EmployeeOptionResponse {
	res := make([]EmployeeOptionResponse, len(rows))
	for i, e := range rows {
		res[i] = EmployeeOptionResponse{
			ID:         e.ID.String(),
			FullName:   e.FullName,
			Department: e.Department,
			Role:       string(e.Role),
		}
	}
	return res
}
