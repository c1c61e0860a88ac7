package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/internal/repository"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type makeupStoreStub struct {
	sessions  []models.MakeupSession
	createErr error
	lookups   []string
}

func (s *makeupStoreStub) FindByProfessorSlot(ctx context.Context, exec sqlx.ExtContext, professor, date string, slot models.Slot) (*models.MakeupSession, error) {
	s.lookups = append(s.lookups, "professor")
	for i := range s.sessions {
		if s.sessions[i].Professor == professor && s.sessions[i].Date == date && s.sessions[i].Slot == slot {
			cp := s.sessions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *makeupStoreStub) FindByRoomSlot(ctx context.Context, exec sqlx.ExtContext, room, date string, slot models.Slot) (*models.MakeupSession, error) {
	s.lookups = append(s.lookups, "room")
	for i := range s.sessions {
		if s.sessions[i].Room == room && s.sessions[i].Date == date && s.sessions[i].Slot == slot {
			cp := s.sessions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *makeupStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, session *models.MakeupSession) error {
	if s.createErr != nil {
		return s.createErr
	}
	session.ID = fmt.Sprintf("mk-%d", len(s.sessions)+1)
	s.sessions = append(s.sessions, *session)
	return nil
}

func (s *makeupStoreStub) List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error) {
	return s.sessions, nil
}

func (s *makeupStoreStub) RoomsInUse(ctx context.Context, date string, slot models.Slot) ([]string, error) {
	var rooms []string
	for _, m := range s.sessions {
		if m.Date == date && m.Slot == slot && m.Room != "" {
			rooms = append(rooms, m.Room)
		}
	}
	return rooms, nil
}

func (s *makeupStoreStub) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type roomDirectoryStub struct {
	all      []string
	occupied []string
	usual    []string
	asked    []string
}

func (r *roomDirectoryStub) DistinctRooms(ctx context.Context) ([]string, error) { return r.all, nil }

func (r *roomDirectoryStub) OccupiedRooms(ctx context.Context, weekday models.Weekday, slot models.Slot) ([]string, error) {
	r.asked = append(r.asked, string(weekday)+"|"+string(slot))
	return r.occupied, nil
}

func (r *roomDirectoryStub) RoomsForProfessor(ctx context.Context, professor, module string) ([]string, error) {
	r.asked = append(r.asked, professor+"|"+module)
	return r.usual, nil
}

func TestMakeupServiceScheduleRoomConflict(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	store := &makeupStoreStub{}
	svc := NewMakeupService(store, &roomDirectoryStub{}, tx, canonical.NewNormalizer(nil), nil, NewMetricsService(), nil, nil)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.Schedule(ctx, dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "martin", Slot: "8h30 - 11h30", Room: "B203"})
	require.NoError(t, err)
	assert.Equal(t, "MARTIN", first.Professor)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Schedule(ctx, dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: "8h30 - 11h30", Room: "B203"})
	appErr := requireAppError(t, err, appErrors.ErrConflict)
	detail, ok := appErr.Details.(*models.MakeupConflictError)
	require.True(t, ok)
	assert.Equal(t, models.ConstraintRoom, detail.Constraint)
	require.NotNil(t, detail.Conflict)
	assert.Equal(t, "MARTIN", detail.Conflict.Professor)
	assert.Len(t, store.sessions, 1)
}

func TestMakeupServiceChecksProfessorBeforeRoom(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	store := &makeupStoreStub{sessions: []models.MakeupSession{
		{ID: "mk-1", Date: "2025-11-20", Professor: "DUPONT", Slot: models.SlotMorning, Room: "B203"},
	}}
	svc := NewMakeupService(store, &roomDirectoryStub{}, tx, nil, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Schedule(context.Background(), dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotMorning), Room: "B203"})
	appErr := requireAppError(t, err, appErrors.ErrConflict)
	assert.Equal(t, models.ConstraintProfessor, appErr.Details.(*models.MakeupConflictError).Constraint)
	assert.Equal(t, []string{"professor"}, store.lookups)
}

func TestMakeupServiceScheduleWithoutRoomSkipsRoomCheck(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	store := &makeupStoreStub{sessions: []models.MakeupSession{
		{ID: "mk-1", Date: "2025-11-20", Professor: "MARTIN", Slot: models.SlotMorning},
	}}
	svc := NewMakeupService(store, &roomDirectoryStub{}, tx, nil, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Schedule(context.Background(), dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotMorning)})
	require.NoError(t, err)
	assert.Equal(t, []string{"professor"}, store.lookups)
}

func TestMakeupServiceReportsRaceAsConflict(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	store := &makeupStoreStub{createErr: fmt.Errorf("create makeup session: %w", repository.ErrDuplicate)}
	svc := NewMakeupService(store, &roomDirectoryStub{}, tx, nil, nil, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Schedule(context.Background(), dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotMorning), Room: "B203"})
	requireAppError(t, err, appErrors.ErrConflict)
}

func TestMakeupServiceScheduleValidation(t *testing.T) {
	svc := NewMakeupService(&makeupStoreStub{}, &roomDirectoryStub{}, nil, nil, nil, nil, nil, nil)
	_, err := svc.Schedule(context.Background(), dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: "midnight"})
	requireAppError(t, err, appErrors.ErrValidation)

	_, err = svc.Schedule(context.Background(), dto.CreateMakeupRequest{Date: "20/11/2025", Professor: "DUPONT", Slot: string(models.SlotMorning)})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestMakeupServiceAvailableRooms(t *testing.T) {
	store := &makeupStoreStub{sessions: []models.MakeupSession{
		{Date: "2025-11-20", Professor: "MARTIN", Slot: models.SlotMidday, Room: "C305"},
	}}
	rooms := &roomDirectoryStub{
		all:      []string{"A101", "B203", "C305", "D401"},
		occupied: []string{"B203"},
		usual:    []string{"A101"},
	}
	svc := NewMakeupService(store, rooms, nil, canonical.NewNormalizer(nil), nil, nil, nil, nil)

	result, err := svc.AvailableRooms(context.Background(), dto.AvailableRoomsQuery{Date: "2025-11-20", Slot: "11h45 - 14h45", Professor: "dupont", Module: "Réseaux"})
	require.NoError(t, err)
	assert.Equal(t, models.Jeudi, result.Weekday)
	assert.Equal(t, []string{"A101", "D401"}, result.FreeRooms)
	assert.Equal(t, []string{"A101"}, result.UsualRooms)
	assert.Contains(t, rooms.asked, "DUPONT|Réseaux")
	assert.Contains(t, rooms.asked, "Jeudi|11h45 - 14h45")

	result, err = svc.AvailableRooms(context.Background(), dto.AvailableRoomsQuery{Date: "2025-11-20", Slot: "11h45 - 14h45"})
	require.NoError(t, err)
	assert.Empty(t, result.UsualRooms)
	assert.NotNil(t, result.UsualRooms)
}

func TestMakeupServiceConstraintsOnStore(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t)
	svc := NewMakeupService(repository.NewMakeupRepository(db), repository.NewTimetableRepository(db), db,
		canonical.NewNormalizer(nil), nil, nil, nil, nil)

	_, err := svc.Schedule(ctx, dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotMorning), Room: "B203"})
	require.NoError(t, err)

	cases := []struct {
		name       string
		req        dto.CreateMakeupRequest
		constraint models.MakeupConstraint
	}{
		{
			name:       "same professor in another room",
			req:        dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "dupont", Slot: string(models.SlotMorning), Room: "C305"},
			constraint: models.ConstraintProfessor,
		},
		{
			name:       "same professor without a room",
			req:        dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotMorning)},
			constraint: models.ConstraintProfessor,
		},
		{
			name:       "same room for another professor",
			req:        dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "MARTIN", Slot: string(models.SlotMorning), Room: "B203"},
			constraint: models.ConstraintRoom,
		},
		{
			name: "same professor and room at another slot",
			req:  dto.CreateMakeupRequest{Date: "2025-11-20", Professor: "DUPONT", Slot: string(models.SlotAfternoon), Room: "B203"},
		},
		{
			name: "same professor and room on another date",
			req:  dto.CreateMakeupRequest{Date: "2025-11-21", Professor: "DUPONT", Slot: string(models.SlotMorning), Room: "B203"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := svc.Schedule(ctx, tc.req)
			if tc.constraint == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, session.ID)
				return
			}
			appErr := requireAppError(t, err, appErrors.ErrConflict)
			detail, ok := appErr.Details.(*models.MakeupConflictError)
			require.True(t, ok)
			assert.Equal(t, tc.constraint, detail.Constraint)
			require.NotNil(t, detail.Conflict)
			assert.Equal(t, "DUPONT", detail.Conflict.Professor)
		})
	}

	sessions, err := svc.List(ctx, dto.MakeupQuery{})
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}
