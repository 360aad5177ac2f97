package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
	"github.com/medvault/medvault/internal/mapper"
)

type reportUpdateRequest struct {
	ReportType      *string `json:"report_type"`
	ReportTitle     *string `json:"report_title"`
	ReportDate      *string `json:"report_date"`
	LabName         *string `json:"lab_name"`
	LabAddress      *string `json:"lab_address"`
	TechnicianName  *string `json:"technician_name"`
	ReferringDoctor *string `json:"referring_doctor"`
	Summary         *string `json:"summary"`
	Findings        *string `json:"findings"`
	Conclusion      *string `json:"conclusion"`
	Recommendations *string `json:"recommendations"`
}

// apply copies the provided fields onto the report; absent fields keep
// their stored value.
func (r *reportUpdateRequest) apply(m *entity.MedicalReport) error {
	if r.ReportType != nil {
		if v := strings.TrimSpace(*r.ReportType); v != "" {
			m.ReportType = v
		}
	}
	if r.ReportDate != nil {
		if strings.TrimSpace(*r.ReportDate) == "" {
			m.ReportDate = nil
		} else {
			d := mapper.ParseDate(*r.ReportDate)
			if d == nil {
				return common.BadRequestError("report_date must be YYYY-MM-DD")
			}
			m.ReportDate = d
		}
	}
	setText(&m.ReportTitle, r.ReportTitle)
	setText(&m.LabName, r.LabName)
	setText(&m.LabAddress, r.LabAddress)
	setText(&m.TechnicianName, r.TechnicianName)
	setText(&m.ReferringDoctor, r.ReferringDoctor)
	setText(&m.Summary, r.Summary)
	setText(&m.Findings, r.Findings)
	setText(&m.Conclusion, r.Conclusion)
	setText(&m.Recommendations, r.Recommendations)
	return nil
}

func (s *Server) listReports(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	reports, err := s.reports.ListByPatient(c.Request().Context(), patientID, c.QueryParam("report_type"))
	if err != nil {
		return common.InternalError("failed to list medical reports")
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) searchReports(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return common.BadRequestError("q is required")
	}
	reports, err := s.reports.Search(c.Request().Context(), patientID, query)
	if err != nil {
		return common.InternalError("failed to search medical reports")
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) getReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	report, err := s.reports.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "medical report")
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) updateReport(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return err
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return asHTTPError(err, "medical report")
	}
	var req reportUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequestError("invalid request body")
	}
	if err := req.apply(report); err != nil {
		return err
	}
	// Edited text has to stay findable, so the search text is rebuilt
	// from the final field values.
	report.SearchableContent = mapper.SearchableContent(
		deref(report.ParsedText),
		deref(report.Summary),
		deref(report.Findings),
		deref(report.Conclusion),
		deref(report.Recommendations),
		deref(report.ReportTitle),
		deref(report.LabName),
	)
	if err := s.reports.Update(ctx, report); err != nil {
		return common.InternalError("failed to update medical report")
	}
	return c.JSON(http.StatusOK, report)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *Server) deleteReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.reports.Delete(c.Request().Context(), id); err != nil {
		return asHTTPError(err, "medical report")
	}
	return c.NoContent(http.StatusNoContent)
}
