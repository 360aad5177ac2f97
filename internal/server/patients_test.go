package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/medvault/internal/entity"
)

func TestCreatePatient(t *testing.T) {
	env := newTestEnv(t, &fakeParser{})

	req := httptest.NewRequest(http.MethodPost, "/patients",
		strings.NewReader(`{"name": "Asha", "blood_group": "O+", "date_of_birth": "1988-04-12"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := env.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p entity.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Asha", p.Name)
	require.NotNil(t, p.BloodGroup)
	assert.Equal(t, "O+", *p.BloodGroup)
	require.NotNil(t, p.DateOfBirth)
}

func TestCreatePatientValidation(t *testing.T) {
	env := newTestEnv(t, &fakeParser{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"blood_group": "O+"}`},
		{"bad date", `{"name": "Asha", "date_of_birth": "12-04-1988"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := env.do(req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearchReportsRequiresQuery(t *testing.T) {
	env := newTestEnv(t, &fakeParser{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/patients/1/medical-reports/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReports(t *testing.T) {
	env := newTestEnv(t, &fakeParser{})
	env.reports.searchFn = func(_ context.Context, patientID uint, query string) ([]entity.MedicalReport, error) {
		assert.Equal(t, uint(1), patientID)
		assert.Equal(t, "hemoglobin", query)
		return []entity.MedicalReport{{ID: 9, PatientID: 1, ReportType: "blood_test"}}, nil
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/patients/1/medical-reports/search?q=hemoglobin", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []entity.MedicalReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, uint(9), reports[0].ID)
}
