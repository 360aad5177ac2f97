package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
	"github.com/medvault/medvault/internal/mapper"
)

type medicineInput struct {
	Name         string  `json:"name"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Timing       *string `json:"timing"`
	WhenToTake   *string `json:"when_to_take"`
	DurationDays *int    `json:"duration_days"`
	Instructions *string `json:"instructions"`
	Morning      bool    `json:"morning"`
	Afternoon    bool    `json:"afternoon"`
	Evening      bool    `json:"evening"`
	Night        bool    `json:"night"`
}

type prescriptionUpdateRequest struct {
	PrescriptionDate *string          `json:"prescription_date"`
	DoctorName       *string          `json:"doctor_name"`
	DoctorTitle      *string          `json:"doctor_title"`
	DoctorSpecialty  *string          `json:"doctor_specialty"`
	DoctorDegree     *string          `json:"doctor_degree"`
	HospitalName     *string          `json:"hospital_name"`
	HospitalAddress  *string          `json:"hospital_address"`
	Diagnosis        *string          `json:"diagnosis"`
	Notes            *string          `json:"notes"`
	Medicines        *[]medicineInput `json:"medicines"`
}

// apply copies the provided fields onto the prescription. Absent fields
// keep their stored value so a partially parsed record can be completed
// piecemeal; when medicines are provided they replace the stored list.
func (r *prescriptionUpdateRequest) apply(rx *entity.Prescription) error {
	if r.PrescriptionDate != nil {
		if strings.TrimSpace(*r.PrescriptionDate) == "" {
			rx.PrescriptionDate = nil
		} else {
			d := mapper.ParseDate(*r.PrescriptionDate)
			if d == nil {
				return common.BadRequestError("prescription_date must be YYYY-MM-DD")
			}
			rx.PrescriptionDate = d
		}
	}
	setText(&rx.DoctorName, r.DoctorName)
	setText(&rx.DoctorTitle, r.DoctorTitle)
	setText(&rx.DoctorSpecialty, r.DoctorSpecialty)
	setText(&rx.DoctorDegree, r.DoctorDegree)
	setText(&rx.HospitalName, r.HospitalName)
	setText(&rx.HospitalAddress, r.HospitalAddress)
	setText(&rx.Diagnosis, r.Diagnosis)
	setText(&rx.Notes, r.Notes)

	if r.Medicines != nil {
		meds := make([]entity.Medicine, 0, len(*r.Medicines))
		for _, m := range *r.Medicines {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				return common.BadRequestError("medicine name is required")
			}
			meds = append(meds, entity.Medicine{
				Name:         name,
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
		rx.Medicines = meds
	}
	return nil
}

// setText applies an optional text field: absent keeps the stored value,
// blank clears it.
func setText(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func (s *Server) listPrescriptions(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	prescriptions, err := s.rxs.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return common.InternalError("failed to list prescriptions")
	}
	return c.JSON(http.StatusOK, prescriptions)
}

// searchPrescriptions finds the patient's prescriptions by medicine name.
func (s *Server) searchPrescriptions(c echo.Context) error {
	patientID, err := pathID(c)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return common.BadRequestError("q is required")
	}
	prescriptions, err := s.rxs.SearchByMedicine(c.Request().Context(), patientID, query)
	if err != nil {
		return common.InternalError("failed to search prescriptions")
	}
	return c.JSON(http.StatusOK, prescriptions)
}

func (s *Server) getPrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rx, err := s.rxs.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "prescription")
	}
	return c.JSON(http.StatusOK, rx)
}

func (s *Server) updatePrescription(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rx, err := s.rxs.GetByID(ctx, id)
	if err != nil {
		return asHTTPError(err, "prescription")
	}
	var req prescriptionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequestError("invalid request body")
	}
	if err := req.apply(rx); err != nil {
		return err
	}
	if err := s.rxs.Update(ctx, rx); err != nil {
		return common.InternalError("failed to update prescription")
	}
	return c.JSON(http.StatusOK, rx)
}

func (s *Server) deletePrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.rxs.Delete(c.Request().Context(), id); err != nil {
		return asHTTPError(err, "prescription")
	}
	return c.NoContent(http.StatusNoContent)
}
