package overtime

import (
	"go-hrms/internal/approval"

	"github.com/shopspring/decimal"
)

type CreateClaimRequest struct {
	Date        string          `json:"date" binding:"required"`
	Hours       decimal.Decimal `json:"hours" binding:"required"`
	ClaimType   string          `json:"claim_type" binding:"omitempty,oneof=Full Partial"`
	ProjectName string          `json:"project_name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=1000"`
}

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=Approved Rejected"`
}

type ListClaimsQuery struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type ClaimResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	Date              string           `json:"date"`
	Hours             decimal.Decimal  `json:"hours"`
	ClaimType         *ClaimType       `json:"claim_type"`
	CompensatoryHours int              `json:"compensatory_hours"`
	PaymentAmount     *decimal.Decimal `json:"payment_amount"`
	ProjectName       string           `json:"project_name"`
	Description       string           `json:"description,omitempty"`
	Status            approval.Status  `json:"status"`
	OverallStatus     string           `json:"overall_status"`
}

func mapToResponse(c Claim) ClaimResponse {
	return ClaimResponse{
		ID:                c.ID.String(),
		EmployeeID:        c.EmployeeID,
		Date:              c.Date.Format("2006-01-02"),
		Hours:             c.Hours,
		ClaimType:         c.ClaimType,
		CompensatoryHours: c.CompensatoryHours,
		PaymentAmount:     c.PaymentAmount,
		ProjectName:       c.ProjectName,
		Description:       c.Description,
		Status:            c.Status,
		OverallStatus:     string(c.Status.Overall()),
	}
}
