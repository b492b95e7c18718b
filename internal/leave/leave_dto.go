package leave

import "go-hrms/internal/approval"

type HalfDaySpan struct {
	Date    string `json:"date" binding:"required"`
	Session string `json:"session" binding:"required"`
}

type FullDaySpan struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type CreateLeaveRequest struct {
	LeaveType           string       `json:"leave_type" binding:"required"`
	HalfDay             *HalfDaySpan `json:"half_day"`
	FullDay             *FullDaySpan `json:"full_day"`
	Reason              string       `json:"reason" binding:"required,max=500"`
	CompensatoryEntryID string       `json:"compensatory_entry_id"`
	ProjectDetails      string       `json:"project_details"`
	RestrictedHoliday   string       `json:"restricted_holiday"`
}

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=Approved Rejected"`
}

type ListLeavesQuery struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type LeaveResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	LeaveType           string          `json:"leave_type"`
	Category            string          `json:"category"`
	Span                string          `json:"span"`
	From                string          `json:"from"`
	To                  string          `json:"to"`
	Session             *string         `json:"session,omitempty"`
	Days                float64         `json:"days"`
	Reason              string          `json:"reason"`
	CompensatoryEntryID *string         `json:"compensatory_entry_id,omitempty"`
	ProjectDetails      *string         `json:"project_details,omitempty"`
	RestrictedHoliday   *string         `json:"restricted_holiday,omitempty"`
	Status              approval.Status `json:"status"`
	OverallStatus       string          `json:"overall_status"`
	CreatedAt           string          `json:"created_at"`
}

func mapToResponse(r Request) LeaveResponse {
	resp := LeaveResponse{
		ID:                  r.ID.String(),
		EmployeeID:          r.EmployeeID,
		LeaveType:           string(r.LeaveType),
		Category:            string(r.Category),
		Span:                string(r.Span),
		From:                r.StartDate.Format("2006-01-02"),
		To:                  r.EndDate.Format("2006-01-02"),
		Days:                r.Days(),
		Reason:              r.Reason,
		CompensatoryEntryID: r.CompensatoryEntryID,
		ProjectDetails:      r.ProjectDetails,
		RestrictedHoliday:   r.RestrictedHoliday,
		Status:              r.Status,
		OverallStatus:       string(r.Status.Overall()),
		CreatedAt:           r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.Session != nil {
		s := string(*r.Session)
		resp.Session = &s
	}
	return resp
}

func mapToListResponse(rows []Request) []LeaveResponse {
	res := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
