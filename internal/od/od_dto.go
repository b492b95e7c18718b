package od

import "go-hrms/internal/approval"

type CreateODRequest struct {
	DateOut        string `json:"date_out" binding:"required"`
	TimeOut        string `json:"time_out" binding:"required"`
	DateIn         string `json:"date_in" binding:"required"`
	TimeIn         string `json:"time_in"`
	Purpose        string `json:"purpose" binding:"required,max=500"`
	PlaceUnitVisit string `json:"place_unit_visit" binding:"required,max=200"`
}

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=Approved Rejected"`
}

type ListODQuery struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
}

type ODResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	DateOut        string          `json:"date_out"`
	TimeOut        string          `json:"time_out"`
	DateIn         string          `json:"date_in"`
	TimeIn         *string         `json:"time_in,omitempty"`
	Purpose        string          `json:"purpose"`
	PlaceUnitVisit string          `json:"place_unit_visit"`
	Status         approval.Status `json:"status"`
	OverallStatus  string          `json:"overall_status"`
}

func mapToResponse(r Request) ODResponse {
	return ODResponse{
		ID:             r.ID.String(),
		EmployeeID:     r.EmployeeID,
		DateOut:        r.DateOut.Format("2006-01-02"),
		TimeOut:        r.TimeOut,
		DateIn:         r.DateIn.Format("2006-01-02"),
		TimeIn:         r.TimeIn,
		Purpose:        r.Purpose,
		PlaceUnitVisit: r.PlaceUnitVisit,
		Status:         r.Status,
		OverallStatus:  string(r.Status.Overall()),
	}
}
