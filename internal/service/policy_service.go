package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/cache"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/refund"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"
	ws "github.com/umarabbas75/fly-inn-app-sub004/internal/websocket"

	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePolicyRequest struct {
	GroupName     string `json:"group_name" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=short long"`
	RuleSet       string `json:"rule_set"` // optional explicit rule family
	BeforeCheckIn string `json:"before_check_in" binding:"required"`
	AfterCheckIn  string `json:"after_check_in" binding:"required"`
}

type UpdatePolicyRequest struct {
	GroupName     string `json:"group_name" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=short long"`
	RuleSet       string `json:"rule_set"`
	BeforeCheckIn string `json:"before_check_in" binding:"required"`
	AfterCheckIn  string `json:"after_check_in" binding:"required"`
}

type PolicyResponse struct {
	ID            uint   `json:"id"`
	GroupName     string `json:"group_name"`
	Type          string `json:"type"`
	RuleSet       string `json:"rule_set"`
	EffectiveRule string `json:"effective_rule"` // rule family actually applied by the refund engine
	BeforeCheckIn string `json:"before_check_in"`
	AfterCheckIn  string `json:"after_check_in"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// --- Interface ---

type PolicyService interface {
	ListPolicies(ctx context.Context) ([]PolicyResponse, error)
	GetPolicy(ctx context.Context, id string) (*PolicyResponse, error)
	CreatePolicy(ctx context.Context, req CreatePolicyRequest, userID string) (*PolicyResponse, error)
	UpdatePolicy(ctx context.Context, id string, req UpdatePolicyRequest, userID string) (*PolicyResponse, error)
	DeletePolicy(ctx context.Context, id string, userID string) error
	// ResolvePolicy is the read path used by the booking/refund flow; it
	// consults the cache before the database.
	ResolvePolicy(ctx context.Context, id uint) (*model.CancellationPolicy, error)
}

type policyService struct {
	repo      repository.PolicyRepository
	auditRepo repository.AuditRepository
	cache     *cache.PolicyCache
	hub       *ws.Hub
}

func NewPolicyService(repo repository.PolicyRepository, auditRepo repository.AuditRepository, policyCache *cache.PolicyCache, hub *ws.Hub) PolicyService {
	return &policyService{repo: repo, auditRepo: auditRepo, cache: policyCache, hub: hub}
}

// --- Implementation ---

func (s *policyService) ListPolicies(ctx context.Context) ([]PolicyResponse, error) {
	policies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cancellation policies: %w", err)
	}

	res := make([]PolicyResponse, 0, len(policies))
	for i := range policies {
		res = append(res, toPolicyResponse(&policies[i]))
	}
	return res, nil
}

func (s *policyService) GetPolicy(ctx context.Context, id string) (*PolicyResponse, error) {
	policyID, err := parsePolicyID(id)
	if err != nil {
		return nil, err
	}

	policy, err := s.ResolvePolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cancellation policy not found")
		}
		return nil, fmt.Errorf("failed to fetch cancellation policy: %w", err)
	}

	res := toPolicyResponse(policy)
	return &res, nil
}

func (s *policyService) CreatePolicy(ctx context.Context, req CreatePolicyRequest, userID string) (*PolicyResponse, error) {
	if err := validatePolicyFields(req.GroupName, req.RuleSet); err != nil {
		return nil, err
	}

	policy := &model.CancellationPolicy{
		GroupName:     strings.TrimSpace(req.GroupName),
		Type:          req.Type,
		RuleSet:       req.RuleSet,
		BeforeCheckIn: req.BeforeCheckIn,
		AfterCheckIn:  req.AfterCheckIn,
	}

	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to create cancellation policy: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreatePolicy, strconv.FormatUint(uint64(policy.ID), 10), policy.GroupName, req)
	broadcastEvent(s.hub, EventPolicyCreated, map[string]interface{}{"id": policy.ID, "group_name": policy.GroupName})

	res := toPolicyResponse(policy)
	return &res, nil
}

func (s *policyService) UpdatePolicy(ctx context.Context, id string, req UpdatePolicyRequest, userID string) (*PolicyResponse, error) {
	policyID, err := parsePolicyID(id)
	if err != nil {
		return nil, err
	}
	if err := validatePolicyFields(req.GroupName, req.RuleSet); err != nil {
		return nil, err
	}

	policy, err := s.repo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cancellation policy not found")
		}
		return nil, fmt.Errorf("failed to fetch cancellation policy: %w", err)
	}

	policy.GroupName = strings.TrimSpace(req.GroupName)
	policy.Type = req.Type
	policy.RuleSet = req.RuleSet
	policy.BeforeCheckIn = req.BeforeCheckIn
	policy.AfterCheckIn = req.AfterCheckIn

	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to update cancellation policy: %w", err)
	}

	s.cache.Invalidate(ctx, policy.ID)
	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdatePolicy, id, policy.GroupName, req)
	broadcastEvent(s.hub, EventPolicyUpdated, map[string]interface{}{"id": policy.ID, "group_name": policy.GroupName})

	res := toPolicyResponse(policy)
	return &res, nil
}

func (s *policyService) DeletePolicy(ctx context.Context, id string, userID string) error {
	policyID, err := parsePolicyID(id)
	if err != nil {
		return err
	}

	policy, err := s.repo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cancellation policy not found")
		}
		return fmt.Errorf("failed to fetch cancellation policy: %w", err)
	}

	inUse, err := s.repo.CountBookings(ctx, policyID)
	if err != nil {
		return fmt.Errorf("failed to check policy references: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("cancellation policy '%s' is referenced by %d booking(s) and cannot be deleted", policy.GroupName, inUse)
	}

	if err := s.repo.Delete(ctx, policyID); err != nil {
		return fmt.Errorf("failed to delete cancellation policy: %w", err)
	}

	s.cache.Invalidate(ctx, policyID)
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeletePolicy, id, policy.GroupName, map[string]string{"deleted_id": id})
	broadcastEvent(s.hub, EventPolicyDeleted, map[string]interface{}{"id": policyID})

	return nil
}

func (s *policyService) ResolvePolicy(ctx context.Context, id uint) (*model.CancellationPolicy, error) {
	if policy, ok := s.cache.Get(ctx, id); ok {
		return policy, nil
	}

	policy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, policy)
	return policy, nil
}

// --- Helpers ---

func parsePolicyID(id string) (uint, error) {
	parsed, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid cancellation policy id '%s'", id)
	}
	return uint(parsed), nil
}

func validatePolicyFields(groupName, ruleSet string) error {
	if strings.TrimSpace(groupName) == "" {
		return errors.New("group_name must not be blank")
	}
	if ruleSet != "" && !refund.ValidRuleSet(ruleSet) {
		return fmt.Errorf("unknown rule_set '%s'", ruleSet)
	}
	return nil
}

func toPolicyResponse(p *model.CancellationPolicy) PolicyResponse {
	effective := refund.RuleSet(p.RuleSet)
	if effective == "" {
		effective = refund.ClassifyGroupName(p.GroupName)
	}
	return PolicyResponse{
		ID:            p.ID,
		GroupName:     p.GroupName,
		Type:          p.Type,
		RuleSet:       p.RuleSet,
		EffectiveRule: string(effective),
		BeforeCheckIn: p.BeforeCheckIn,
		AfterCheckIn:  p.AfterCheckIn,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
