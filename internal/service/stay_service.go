package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateStayRequest struct {
	Title        string `json:"title" binding:"required"`
	City         string `json:"city"`
	State        string `json:"state"`
	Timezone     string `json:"timezone"`       // IANA zone name; defaults to America/New_York
	CheckInAfter string `json:"check_in_after"` // HH:mm:ss; defaults to 15:00:00
	NightlyRate  string `json:"nightly_rate" binding:"required"`
}

type UpdateStayRequest struct {
	Title        string `json:"title"`
	City         string `json:"city"`
	State        string `json:"state"`
	Timezone     string `json:"timezone"`
	CheckInAfter string `json:"check_in_after"`
	NightlyRate  string `json:"nightly_rate"`
}

type StayResponse struct {
	ID           string `json:"id"`
	HostID       string `json:"host_id"`
	Title        string `json:"title"`
	City         string `json:"city"`
	State        string `json:"state"`
	Timezone     string `json:"timezone"`
	CheckInAfter string `json:"check_in_after"`
	NightlyRate  string `json:"nightly_rate"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

type StayService interface {
	CreateStay(ctx context.Context, hostID string, req CreateStayRequest) (*StayResponse, error)
	GetStay(ctx context.Context, id string) (*StayResponse, error)
	ListStays(ctx context.Context, page, limit int) ([]StayResponse, int64, error)
	UpdateStay(ctx context.Context, id string, requesterID, requesterRole string, req UpdateStayRequest) (*StayResponse, error)
	DeleteStay(ctx context.Context, id string, requesterID, requesterRole string) error
}

type stayService struct {
	repo      repository.StayRepository
	auditRepo repository.AuditRepository
}

func NewStayService(repo repository.StayRepository, auditRepo repository.AuditRepository) StayService {
	return &stayService{repo: repo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *stayService) CreateStay(ctx context.Context, hostID string, req CreateStayRequest) (*StayResponse, error) {
	host, err := uuid.Parse(hostID)
	if err != nil {
		return nil, fmt.Errorf("invalid host id: %w", err)
	}

	rate, err := decimal.NewFromString(req.NightlyRate)
	if err != nil || rate.IsNegative() {
		return nil, errors.New("nightly_rate must be a non-negative decimal")
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = model.DefaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone '%s'", timezone)
	}

	checkInAfter := req.CheckInAfter
	if checkInAfter == "" {
		checkInAfter = model.DefaultCheckInAfter
	}
	if _, err := time.Parse("15:04:05", checkInAfter); err != nil {
		return nil, errors.New("invalid check_in_after format (expected HH:mm:ss)")
	}

	stay := &model.Stay{
		HostID:       host,
		Title:        req.Title,
		City:         req.City,
		State:        req.State,
		Timezone:     timezone,
		CheckInAfter: checkInAfter,
		NightlyRate:  rate,
	}

	if err := s.repo.Create(ctx, stay); err != nil {
		return nil, fmt.Errorf("failed to create stay: %w", err)
	}

	writeAudit(ctx, s.auditRepo, hostID, model.ActionCreateStay, stay.ID.String(), stay.Title, req)

	res := toStayResponse(stay)
	return &res, nil
}

func (s *stayService) GetStay(ctx context.Context, id string) (*StayResponse, error) {
	stay, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toStayResponse(stay)
	return &res, nil
}

func (s *stayService) ListStays(ctx context.Context, page, limit int) ([]StayResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	stays, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stays: %w", err)
	}

	res := make([]StayResponse, 0, len(stays))
	for i := range stays {
		res = append(res, toStayResponse(&stays[i]))
	}
	return res, total, nil
}

func (s *stayService) UpdateStay(ctx context.Context, id string, requesterID, requesterRole string, req UpdateStayRequest) (*StayResponse, error) {
	stay, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeHost(stay, requesterID, requesterRole); err != nil {
		return nil, err
	}

	if req.Title != "" {
		stay.Title = req.Title
	}
	if req.City != "" {
		stay.City = req.City
	}
	if req.State != "" {
		stay.State = req.State
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone '%s'", req.Timezone)
		}
		stay.Timezone = req.Timezone
	}
	if req.CheckInAfter != "" {
		if _, err := time.Parse("15:04:05", req.CheckInAfter); err != nil {
			return nil, errors.New("invalid check_in_after format (expected HH:mm:ss)")
		}
		stay.CheckInAfter = req.CheckInAfter
	}
	if req.NightlyRate != "" {
		rate, err := decimal.NewFromString(req.NightlyRate)
		if err != nil || rate.IsNegative() {
			return nil, errors.New("nightly_rate must be a non-negative decimal")
		}
		stay.NightlyRate = rate
	}

	if err := s.repo.Update(ctx, stay); err != nil {
		return nil, fmt.Errorf("failed to update stay: %w", err)
	}

	writeAudit(ctx, s.auditRepo, requesterID, model.ActionUpdateStay, stay.ID.String(), stay.Title, req)

	res := toStayResponse(stay)
	return &res, nil
}

func (s *stayService) DeleteStay(ctx context.Context, id string, requesterID, requesterRole string) error {
	stay, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeHost(stay, requesterID, requesterRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, stay.ID); err != nil {
		return fmt.Errorf("failed to delete stay: %w", err)
	}

	writeAudit(ctx, s.auditRepo, requesterID, model.ActionDeleteStay, stay.ID.String(), stay.Title, map[string]string{"deleted_id": id})
	return nil
}

// --- Helpers ---

func (s *stayService) find(ctx context.Context, id string) (*model.Stay, error) {
	stayID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stay id: %w", err)
	}

	stay, err := s.repo.FindByID(ctx, stayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("stay not found")
		}
		return nil, fmt.Errorf("failed to fetch stay: %w", err)
	}
	return stay, nil
}

func authorizeHost(stay *model.Stay, requesterID, requesterRole string) error {
	if requesterRole == model.RoleAdmin {
		return nil
	}
	if stay.HostID.String() != requesterID {
		return errors.New("access denied: not your listing")
	}
	return nil
}

func toStayResponse(stay *model.Stay) StayResponse {
	return StayResponse{
		ID:           stay.ID.String(),
		HostID:       stay.HostID.String(),
		Title:        stay.Title,
		City:         stay.City,
		State:        stay.State,
		Timezone:     stay.Timezone,
		CheckInAfter: stay.CheckInAfter,
		NightlyRate:  stay.NightlyRate.StringFixed(2),
		CreatedAt:    stay.CreatedAt.Format(time.RFC3339),
	}
}
