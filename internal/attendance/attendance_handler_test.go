package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrms/internal/attendance"
	"go-hrms/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	listFn      func(ctx context.Context, actorID string, canReadAll bool, q attendance.ListAttendanceQuery) ([]attendance.AttendanceResponse, error)
	getForDayFn func(ctx context.Context, employeeID, date string) (attendance.AttendanceResponse, error)
}

func (f *fakeService) List(ctx context.Context, actorID string, canReadAll bool, q attendance.ListAttendanceQuery) ([]attendance.AttendanceResponse, error) {
	return f.listFn(ctx, actorID, canReadAll, q)
}

func (f *fakeService) GetForDay(ctx context.Context, employeeID, date string) (attendance.AttendanceResponse, error) {
	return f.getForDayFn(ctx, employeeID, date)
}

type roleRBAC struct{}

func (roleRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role != string(domain.RoleEmployee), nil
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotReadAll bool
	svc := &fakeService{
		listFn: func(ctx context.Context, actorID string, canReadAll bool, q attendance.ListAttendanceQuery) ([]attendance.AttendanceResponse, error) {
			gotReadAll = canReadAll
			assert.Equal(t, "emp-1", actorID)
			assert.Equal(t, "2026-03-01", q.From)
			return []attendance.AttendanceResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	h := attendance.NewHandler(svc, roleRBAC{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", "emp-1")
	c.Set("role", "HOD")
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?from=2026-03-01&page=2&page_size=2", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotReadAll)
	env := decodeEnvelope(t, w)
	var rows []attendance.AttendanceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].ID)
}

func TestHandler_GetForDay(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getForDayFn: func(ctx context.Context, employeeID, date string) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{EmployeeID: employeeID, Date: date, Status: "Present"}, nil
		},
	}
	h := attendance.NewHandler(svc, roleRBAC{})

	t.Run("employee reading someone else", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", "emp-1")
		c.Set("role", "Employee")
		c.Params = gin.Params{{Key: "employee_id", Value: "emp-2"}, {Key: "date", Value: "2026-03-02"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/attendances/emp-2/2026-03-02", nil)

		h.GetForDay(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("own day", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", "emp-1")
		c.Set("role", "Employee")
		c.Params = gin.Params{{Key: "employee_id", Value: "emp-1"}, {Key: "date", Value: "2026-03-02"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/attendances/emp-1/2026-03-02", nil)

		h.GetForDay(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
