package balance

type CompensatoryEntryResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Hours  int    `json:"hours"`
	Status string `json:"status"`
}

type BalanceResponse struct {
	EmployeeID                 string                      `json:"employee_id"`
	PaidLeaves                 float64                     `json:"paid_leaves"`
	MedicalLeaves              float64                     `json:"medical_leaves"`
	RestrictedHolidays         int                         `json:"restricted_holidays"`
	MaternityClaims            int                         `json:"maternity_claims"`
	PaternityClaims            int                         `json:"paternity_claims"`
	UnpaidLeavesTaken          float64                     `json:"unpaid_leaves_taken"`
	CompensatoryAvailableHours int                         `json:"compensatory_available_hours"`
	CompensatoryEntries        []CompensatoryEntryResponse `json:"compensatory_entries"`
}

func mapToResponse(employeeID string, a Account) BalanceResponse {
	entries := make([]CompensatoryEntryResponse, len(a.Compensatory))
	for i, e := range a.Compensatory {
		entries[i] = CompensatoryEntryResponse{
			ID:     e.ID,
			Date:   e.Date.Format("2006-01-02"),
			Hours:  e.Hours,
			Status: string(e.Status),
		}
	}
	return BalanceResponse{
		EmployeeID:                 employeeID,
		PaidLeaves:                 a.Paid,
		MedicalLeaves:              a.Medical,
		RestrictedHolidays:         a.RestrictedHolidays,
		MaternityClaims:            a.MaternityClaims,
		PaternityClaims:            a.PaternityClaims,
		UnpaidLeavesTaken:          a.UnpaidTaken,
		CompensatoryAvailableHours: a.AvailableCompensatoryHours(),
		CompensatoryEntries:        entries,
	}
}
