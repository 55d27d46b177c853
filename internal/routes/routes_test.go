package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

const secret = "routes-test-secret"

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	doctor  models.Actor
	patient models.Actor
	other   models.Actor
	admin   models.Actor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := scheduling.NewService(repo, zerolog.Nop(),
		scheduling.WithClock(func() time.Time { return now }),
		scheduling.WithLocation(time.UTC))

	s := &testServer{
		t:       t,
		router:  gin.New(),
		doctor:  models.Actor{ID: "doc-1", Role: models.RoleDoctor},
		patient: models.Actor{ID: "pat-1", Role: models.RolePatient},
		other:   models.Actor{ID: "pat-2", Role: models.RolePatient},
		admin:   models.Actor{ID: "adm-1", Role: models.RoleAdmin},
	}
	for _, a := range []models.Actor{s.doctor, s.patient, s.other, s.admin} {
		u := &models.User{Email: a.ID + "@clinic.test", FirstName: a.ID, Role: a.Role}
		u.ID = a.ID
		require.NoError(t, repo.CreateUser(context.Background(), u))
	}

	SetupRoutes(s.router, svc, &config.Config{JWTSecret: secret}, zerolog.Nop())
	return s
}

func (s *testServer) do(actor *models.Actor, method, path string, body interface{}) (int, utils.ResponseData) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, err := utils.GenerateToken(*actor, secret, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp utils.ResponseData
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func (s *testServer) saveMondaySchedule() {
	s.t.Helper()
	code, _ := s.do(&s.doctor, http.MethodPost, "/api/v1/schedule", gin.H{
		"days": []gin.H{{"code": "lunes", "blocks": []gin.H{{"start": "09:00", "end": "12:00"}}}},
	})
	require.Equal(s.t, http.StatusOK, code)
	code, _ = s.do(&s.doctor, http.MethodPost, "/api/v1/schedule/config", gin.H{
		"durationMinutes": 60, "modality": "presencial", "price": "2500.00",
	})
	require.Equal(s.t, http.StatusOK, code)
}

func slotsOf(t *testing.T, data interface{}) []string {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var slots []scheduling.Slot
	require.NoError(t, json.Unmarshal(raw, &slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()

	code, resp := s.do(&s.patient, http.MethodGet, "/api/v1/doctors/doc-1/availability?date=2025-01-20", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotsOf(t, resp.Data))

	booking := gin.H{"doctorId": "doc-1", "date": "2025-01-20", "time": "10:00", "notes": "control"}
	code, resp = s.do(&s.patient, http.MethodPost, "/api/v1/appointments", booking)
	require.Equal(t, http.StatusCreated, code)
	appointmentID := resp.Data.(map[string]interface{})["appointmentId"].(string)
	assert.NotEmpty(t, appointmentID)

	code, resp = s.do(&s.other, http.MethodPost, "/api/v1/appointments", booking)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, utils.CodeConflict, resp.Code)

	code, resp = s.do(&s.patient, http.MethodGet, "/api/v1/doctors/doc-1/availability?date=2025-01-20", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"09:00", "11:00"}, slotsOf(t, resp.Data))

	code, resp = s.do(&s.other, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/cancel", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, utils.CodeForbidden, resp.Code)

	code, _ = s.do(&s.patient, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(&s.patient, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, utils.CodeInvalidState, resp.Code)
}

func TestBookingValidation(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()

	code, resp := s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "20/01/2025", "time": "10:00"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeInvalid, resp.Code)

	code, resp = s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "ghost", "date": "2025-01-20", "time": "10:00"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, utils.CodeNotFound, resp.Code)

	code, _ = s.do(&s.doctor, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-20", "time": "10:00"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(nil, http.MethodGet, "/api/v1/doctors", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDoctorPanel(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()

	_, resp := s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-20", "time": "09:00"})
	appointmentID := resp.Data.(map[string]interface{})["appointmentId"].(string)

	code, _ := s.do(&s.doctor, http.MethodPost, "/api/v1/doctor/appointments/"+appointmentID+"/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(&s.doctor, http.MethodPost, "/api/v1/doctor/appointments/"+appointmentID+"/status", gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(&s.doctor, http.MethodPost, "/api/v1/doctor/appointments/"+appointmentID+"/notes", gin.H{"notes": "fasting"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(&s.doctor, http.MethodGet, "/api/v1/doctor/appointments?status=confirmed", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 1)

	code, resp = s.do(&s.doctor, http.MethodGet, "/api/v1/doctor/stats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{
		"today": float64(0), "thisWeek": float64(0), "pendingUpcoming": float64(0), "patients": float64(1),
	}, resp.Data)

	code, _ = s.do(&s.patient, http.MethodGet, "/api/v1/doctor/stats", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestScheduleEditor(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()

	code, resp := s.do(&s.doctor, http.MethodGet, "/api/v1/schedule", nil)
	require.Equal(t, http.StatusOK, code)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["days"], 7)
	assert.Equal(t, float64(60), data["config"].(map[string]interface{})["slotDurationMinutes"])

	code, resp = s.do(&s.doctor, http.MethodPost, "/api/v1/schedule/config", gin.H{"durationMinutes": 900})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeInvalid, resp.Code)

	code, resp = s.do(&s.patient, http.MethodGet, "/api/v1/doctors/doc-1/month-availability?year=2025&month=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(3), float64(10), float64(17), float64(24)}, resp.Data)

	code, _ = s.do(&s.patient, http.MethodGet, "/api/v1/doctors/doc-1/month-availability?year=2025", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminRoster(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(&s.admin, http.MethodPost, "/api/v1/admin/users", gin.H{
		"firstName": "Bruno", "lastName": "Benitez", "email": "bruno@clinic.test", "role": "doctor",
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do(&s.admin, http.MethodGet, "/api/v1/admin/users?role=doctor", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 2)

	code, _ = s.do(&s.patient, http.MethodGet, "/api/v1/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(&s.patient, http.MethodGet, "/api/v1/doctors?year=2025&month=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 2)

	code, _ = s.do(&s.patient, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestDoctorPatientsAndWeekView(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()
	s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-20", "time": "09:00"})
	s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-27", "time": "09:00"})

	code, resp := s.do(&s.doctor, http.MethodGet, "/api/v1/doctor/patients", nil)
	require.Equal(t, http.StatusOK, code)
	patients := resp.Data.([]interface{})
	require.Len(t, patients, 1)
	assert.Equal(t, "pat-1", patients[0].(map[string]interface{})["id"])

	code, resp = s.do(&s.doctor, http.MethodGet, "/api/v1/doctor/appointments?date=2025-01-23&view=week", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 1)

	code, resp = s.do(&s.doctor, http.MethodGet, "/api/v1/doctor/appointments?view=fortnight", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, utils.CodeInvalid, resp.Code)

	code, _ = s.do(&s.patient, http.MethodGet, "/api/v1/doctor/patients", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminAppointmentsAndStats(t *testing.T) {
	s := newTestServer(t)
	s.saveMondaySchedule()
	_, resp := s.do(&s.patient, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-20", "time": "09:00"})
	firstID := resp.Data.(map[string]interface{})["appointmentId"].(string)
	_, resp = s.do(&s.other, http.MethodPost, "/api/v1/appointments", gin.H{"doctorId": "doc-1", "date": "2025-01-27", "time": "11:00"})
	laterID := resp.Data.(map[string]interface{})["appointmentId"].(string)

	code, resp := s.do(&s.admin, http.MethodGet, "/api/v1/admin/appointments", nil)
	require.Equal(t, http.StatusOK, code)
	list := resp.Data.([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, laterID, list[0].(map[string]interface{})["id"])

	code, resp = s.do(&s.admin, http.MethodGet, "/api/v1/admin/appointments/"+firstID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pat-1", resp.Data.(map[string]interface{})["patientId"])

	code, resp = s.do(&s.admin, http.MethodGet, "/api/v1/admin/appointments/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, utils.CodeNotFound, resp.Code)

	code, resp = s.do(&s.admin, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), stats["doctors"])
	assert.Equal(t, float64(2), stats["patients"])
	assert.Equal(t, float64(0), stats["today"])
	assert.Equal(t, float64(2), stats["byStatus"].(map[string]interface{})["pending"])

	code, _ = s.do(&s.doctor, http.MethodGet, "/api/v1/admin/appointments", nil)
	assert.Equal(t, http.StatusForbidden, code)
}
