package attendance

type ListAttendanceQuery struct {
	EmployeeID string `form:"employee_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	TimeIn          *string `json:"time_in"`
	TimeOut         *string `json:"time_out"`
	Status          string  `json:"status"`
	HalfDayPart     *string `json:"half_day_part"`
	OvertimeMinutes int     `json:"overtime_minutes"`
}

func mapToResponse(r Record) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              r.ID.String(),
		EmployeeID:      r.EmployeeID,
		Date:            r.Date.Format("2006-01-02"),
		TimeIn:          r.TimeIn,
		TimeOut:         r.TimeOut,
		Status:          string(r.Status),
		OvertimeMinutes: r.OvertimeMinutes,
	}
	if r.HalfDayPart != nil {
		v := string(*r.HalfDayPart)
		resp.HalfDayPart = &v
	}
	return resp
}
