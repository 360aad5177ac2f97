package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medvault/medvault/internal/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) exportPrescriptions(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	data, err := s.exporter.ExportPrescriptionsXLSX(c.Request().Context(), patientID)
	if err != nil {
		s.logger.Error("export.prescriptions_error", "patient_id", patientID, "error", err)
		return common.InternalError("failed to export prescriptions")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="prescriptions_patient_%d.xlsx"`, patientID))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (s *Server) exportReports(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	data, err := s.exporter.ExportReportsXLSX(c.Request().Context(), patientID, c.QueryParam("report_type"))
	if err != nil {
		s.logger.Error("export.reports_error", "patient_id", patientID, "error", err)
		return common.InternalError("failed to export medical reports")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="medical_reports_patient_%d.xlsx"`, patientID))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
