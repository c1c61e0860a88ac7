package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type semesterServiceStub struct {
	actor  *models.JWTClaims
	err    error
	resets int
}

func (s *semesterServiceStub) Get(ctx context.Context) (*models.SemesterConfig, error) {
	return &models.SemesterConfig{Start: "2025-10-06", End: "2025-12-27"}, s.err
}

func (s *semesterServiceStub) Update(ctx context.Context, req dto.UpdateSemesterRequest, actor *models.JWTClaims) (*models.SemesterConfig, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &models.SemesterConfig{Start: req.Start, End: req.End}, nil
}

func (s *semesterServiceStub) Reset(ctx context.Context) error {
	s.resets++
	return s.err
}

func TestSemesterHandlerUpdatePassesActor(t *testing.T) {
	svc := &semesterServiceStub{}
	handler := NewSemesterHandler(svc)

	c, w := newGinContext(http.MethodPut, "/semester", dto.UpdateSemesterRequest{Start: "2026-02-02", End: "2026-06-13"})
	withClaims(c, "admin-1", models.RoleAdmin)
	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.actor)
	assert.Equal(t, "admin-1", svc.actor.UserID)
}

func TestSemesterHandlerUpdateInvalidRange(t *testing.T) {
	handler := NewSemesterHandler(&semesterServiceStub{err: appErrors.ErrInvalidRange})
	c, w := newGinContext(http.MethodPut, "/semester", dto.UpdateSemesterRequest{Start: "2026-06-13", End: "2026-02-02"})
	handler.Update(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, decodeEnvelope(t, w).Error.Code)
}

func TestSemesterHandlerReset(t *testing.T) {
	svc := &semesterServiceStub{}
	handler := NewSemesterHandler(svc)
	c, w := newGinContext(http.MethodPost, "/semester/reset", nil)
	handler.Reset(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.resets)

	handler = NewSemesterHandler(&semesterServiceStub{err: appErrors.Store(errors.New("disk full"), "failed to reset semester data")})
	c, w = newGinContext(http.MethodPost, "/semester/reset", nil)
	handler.Reset(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type holidayServiceStub struct {
	err error
}

func (s holidayServiceStub) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	return nil, s.err
}

func (s holidayServiceStub) Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.HolidayPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.HolidayPeriod{ID: "hol-1", StartDate: req.StartDate, EndDate: req.EndDate}, nil
}

func (s holidayServiceStub) Delete(ctx context.Context, id string) error {
	return s.err
}

func TestHolidayHandler(t *testing.T) {
	handler := NewHolidayHandler(holidayServiceStub{})

	c, w := newGinContext(http.MethodGet, "/holidays", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, w).Data))

	c, w = newGinContext(http.MethodPost, "/holidays", dto.CreateHolidayRequest{StartDate: "2025-12-22", EndDate: "2025-12-28"})
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newGinContext(http.MethodDelete, "/holidays/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	handler = NewHolidayHandler(holidayServiceStub{err: appErrors.Store(errors.New("disk I/O error"), "failed to delete holiday")})
	c, w = newGinContext(http.MethodDelete, "/holidays/hol-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "hol-1"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
