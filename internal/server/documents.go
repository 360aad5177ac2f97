package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
	"github.com/medvault/medvault/internal/mapper"
	"github.com/medvault/medvault/internal/pipeline"
)

type uploadResponse struct {
	Document         *entity.Document      `json:"document"`
	DetectedCategory string                `json:"detected_category"`
	ParsingStatus    string                `json:"parsing_status"`
	Prescription     *entity.Prescription  `json:"prescription,omitempty"`
	MedicalReport    *entity.MedicalReport `json:"medical_report,omitempty"`
}

// uploadDocument stores the file and its document row first, then runs
// the parse pipeline. A broken parse never loses the upload: the routed
// record is written with whatever status the pipeline produced.
func (s *Server) uploadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return asHTTPError(err, "patient")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.BadRequestError("file is required")
	}
	s.logger.Info("upload.start",
		"req_id", common.RequestIDFromContext(ctx),
		"patient_id", patientID,
		"file_name", fileHeader.Filename,
		"bytes", fileHeader.Size,
	)
	if err := s.files.Validate(fileHeader.Filename, fileHeader.Size); err != nil {
		return common.BadRequestError(err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.InternalError("failed to open upload")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return common.InternalError("failed to read upload")
	}

	storedName, relPath, err := s.files.Save(patientID, fileHeader.Filename, data)
	if err != nil {
		s.logger.Error("upload.store_error", "patient_id", patientID, "error", err)
		return common.InternalError("failed to store file")
	}

	ext := constants.NormalizeExt(filepath.Ext(fileHeader.Filename))
	displayName := strings.TrimSpace(c.FormValue("display_name"))
	doc := &entity.Document{
		PatientID:   patientID,
		FileName:    storedName,
		DisplayName: fileHeader.Filename,
		FilePath:    relPath,
		FileType:    ext,
		FileSize:    fileHeader.Size,
	}
	if displayName != "" {
		doc.DisplayName = displayName
	}
	if notes := strings.TrimSpace(c.FormValue("notes")); notes != "" {
		doc.Notes = &notes
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return common.InternalError("failed to create document")
	}

	hint := c.FormValue("document_type")
	out := s.pipe.Parse(ctx, data, constants.MapExtToFormat(ext), s.cfg.AI.APIKey, hint)

	doc.DocumentType = string(out.DetectedCategory)
	// The model's suggested name only applies when the caller asked for
	// one and did not name the document themselves.
	generateName := c.FormValue("generate_display_name") == "true" || c.FormValue("generate_display_name") == "1"
	if generateName && displayName == "" && out.SuggestedFileName != "" {
		doc.DisplayName = out.SuggestedFileName + "." + ext
	}
	if err := s.docs.Update(ctx, doc); err != nil {
		s.logger.Error("upload.document_update_error", "document_id", doc.ID, "error", err)
	}

	resp := uploadResponse{
		Document:         doc,
		DetectedCategory: string(out.DetectedCategory),
		ParsingStatus:    string(out.Status),
	}

	// A failed parse still leaves an audit row carrying the raw payload,
	// so the routed record is created in every case.
	switch {
	case out.Prescription != nil:
		rx := toPrescriptionEntity(doc.ID, patientID, out)
		if err := s.rxs.Create(ctx, rx); err != nil {
			s.logger.Error("upload.prescription_create_error", "document_id", doc.ID, "error", err)
		} else {
			resp.Prescription = rx
		}
	case out.MedicalReport != nil:
		rep := toReportEntity(doc.ID, patientID, out)
		if err := s.reports.Create(ctx, rep); err != nil {
			s.logger.Error("upload.report_create_error", "document_id", doc.ID, "error", err)
		} else {
			resp.MedicalReport = rep
		}
	case out.DetectedCategory == constants.CategoryMedicalReport:
		rep := &entity.MedicalReport{
			DocumentID:    doc.ID,
			PatientID:     patientID,
			ReportType:    "other",
			RawParsedData: marshalRaw(out.Raw),
			ParsingStatus: string(out.Status),
		}
		if err := s.reports.Create(ctx, rep); err != nil {
			s.logger.Error("upload.report_create_error", "document_id", doc.ID, "error", err)
		} else {
			resp.MedicalReport = rep
		}
	default:
		rx := &entity.Prescription{
			DocumentID:    doc.ID,
			PatientID:     patientID,
			RawParsedData: marshalRaw(out.Raw),
			ParsingStatus: string(out.Status),
		}
		if err := s.rxs.Create(ctx, rx); err != nil {
			s.logger.Error("upload.prescription_create_error", "document_id", doc.ID, "error", err)
		} else {
			resp.Prescription = rx
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) listDocuments(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	docs, err := s.docs.List(c.Request().Context(), patientID, c.QueryParam("document_type"))
	if err != nil {
		return common.InternalError("failed to list documents")
	}
	return c.JSON(http.StatusOK, docs)
}

func (s *Server) getDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	doc, err := s.docs.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "document")
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) downloadDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	doc, err := s.docs.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "document")
	}
	return c.Attachment(s.files.FullPath(doc.FilePath), doc.DisplayName)
}

func (s *Server) deleteDocument(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return err
	}
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return asHTTPError(err, "document")
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return asHTTPError(err, "document")
	}
	if err := s.files.Delete(doc.FilePath); err != nil {
		s.logger.Warn("document.delete_file_error", "document_id", id, "error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toPrescriptionEntity(documentID, patientID uint, out pipeline.Outcome) *entity.Prescription {
	rec := out.Prescription
	rx := &entity.Prescription{
		DocumentID:       documentID,
		PatientID:        patientID,
		PrescriptionDate: rec.PrescriptionDate,
		DoctorName:       rec.DoctorName,
		DoctorTitle:      rec.DoctorTitle,
		DoctorSpecialty:  rec.DoctorSpecialty,
		DoctorDegree:     rec.DoctorDegree,
		HospitalName:     rec.HospitalName,
		HospitalAddress:  rec.HospitalAddress,
		Diagnosis:        rec.Diagnosis,
		Notes:            rec.Notes,
		RawParsedData:    marshalRaw(rec.Raw),
		ParsingStatus:    string(rec.Status),
	}
	for _, m := range rec.Medicines {
		rx.Medicines = append(rx.Medicines, entity.Medicine{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Timing:       m.Timing,
			WhenToTake:   m.WhenToTake,
			DurationDays: m.DurationDays,
			Instructions: m.Instructions,
			Morning:      m.Morning,
			Afternoon:    m.Afternoon,
			Evening:      m.Evening,
			Night:        m.Night,
		})
	}
	return rx
}

func toReportEntity(documentID, patientID uint, out pipeline.Outcome) *entity.MedicalReport {
	rec := out.MedicalReport
	return &entity.MedicalReport{
		DocumentID:        documentID,
		PatientID:         patientID,
		ReportType:        rec.ReportType,
		ReportTitle:       rec.ReportTitle,
		ReportDate:        rec.ReportDate,
		LabName:           rec.LabName,
		LabAddress:        rec.LabAddress,
		TechnicianName:    rec.TechnicianName,
		ReferringDoctor:   rec.ReferringDoctor,
		ParsedText:        rec.ParsedText,
		Summary:           rec.Summary,
		Findings:          rec.Findings,
		Conclusion:        rec.Conclusion,
		Recommendations:   rec.Recommendations,
		TestResults:       marshalTestResults(rec.TestResults),
		SearchableContent: rec.SearchableContent,
		RawParsedData:     marshalRaw(rec.Raw),
		ParsingStatus:     string(rec.Status),
	}
}

func marshalRaw(raw map[string]any) []byte {
	if len(raw) == 0 {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	return b
}

func marshalTestResults(results []mapper.TestResult) []byte {
	if len(results) == 0 {
		return nil
	}
	b, err := json.Marshal(results)
	if err != nil {
		return nil
	}
	return b
}
