package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
)

type patientRequest struct {
	Name              string  `json:"name"`
	DateOfBirth       *string `json:"date_of_birth"`
	Gender            *string `json:"gender"`
	BloodGroup        *string `json:"blood_group"`
	Allergies         *string `json:"allergies"`
	ChronicConditions *string `json:"chronic_conditions"`
	EmergencyContact  *string `json:"emergency_contact"`
	RelationToUser    *string `json:"relation_to_user"`
	AvatarURL         *string `json:"avatar_url"`
}

func (req *patientRequest) apply(p *entity.Patient) error {
	if req.Name == "" {
		return common.BadRequestError("name is required")
	}
	p.Name = req.Name
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return common.BadRequestError("date_of_birth must be YYYY-MM-DD")
		}
		p.DateOfBirth = &dob
	}
	p.Gender = req.Gender
	p.BloodGroup = req.BloodGroup
	p.Allergies = req.Allergies
	p.ChronicConditions = req.ChronicConditions
	p.EmergencyContact = req.EmergencyContact
	p.RelationToUser = req.RelationToUser
	p.AvatarURL = req.AvatarURL
	return nil
}

func (s *Server) createPatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequestError("invalid request body")
	}
	var p entity.Patient
	if err := req.apply(&p); err != nil {
		return err
	}
	if err := s.patients.Create(c.Request().Context(), &p); err != nil {
		return common.InternalError("failed to create patient")
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) listPatients(c echo.Context) error {
	patients, err := s.patients.List(c.Request().Context())
	if err != nil {
		return common.InternalError("failed to list patients")
	}
	return c.JSON(http.StatusOK, patients)
}

func (s *Server) getPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := s.patients.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) updatePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := s.patients.GetByID(c.Request().Context(), id)
	if err != nil {
		return asHTTPError(err, "patient")
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequestError("invalid request body")
	}
	if err := req.apply(p); err != nil {
		return err
	}
	if err := s.patients.Update(c.Request().Context(), p); err != nil {
		return common.InternalError("failed to update patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(c.Request().Context(), id); err != nil {
		return asHTTPError(err, "patient")
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, common.BadRequestError("invalid id")
	}
	return uint(id), nil
}

func asHTTPError(err error, resource string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFoundError(resource + " not found")
	}
	return common.InternalErrorf("failed to access %s", resource)
}
