package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// StaffSvc is an implementation of the service.StaffService interface
type StaffSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewStaffService creates a new StaffSvc
func NewStaffService(deps Dependencies) *StaffSvc {
	return &StaffSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// Create adds a staff member to the directory
func (s *StaffSvc) Create(ctx context.Context, req *models.StaffRequest) (int, error) {
	if err := req.ValidateStaffRequest(); err != nil {
		return 0, fmt.Errorf("invalid staff request: %w", err)
	}

	if existing, err := s.repos.Staff.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return 0, fmt.Errorf("staff member with email %s already exists", req.Email)
	}

	member := req.ToStaffMember()

	id, err := s.repos.Staff.Create(ctx, member)
	if err != nil {
		return 0, fmt.Errorf("failed to create staff member: %w", err)
	}

	s.logger.Infof("Staff member created: %d (%s)", id, member.FullName)

	return id, nil
}

// GetByID gets a staff member by ID
func (s *StaffSvc) GetByID(ctx context.Context, id int) (*models.StaffMember, error) {
	return s.repos.Staff.GetByID(ctx, id)
}

// GetAll gets directory entries, optionally restricted to active staff
func (s *StaffSvc) GetAll(ctx context.Context, activeOnly bool) ([]*models.StaffMember, error) {
	return s.repos.Staff.GetAll(ctx, activeOnly)
}

// Update updates a staff member's directory entry
func (s *StaffSvc) Update(ctx context.Context, id int, req *models.StaffRequest) error {
	if err := req.ValidateStaffRequest(); err != nil {
		return fmt.Errorf("invalid staff request: %w", err)
	}

	existing, err := s.repos.Staff.GetByID(ctx, id)
	if err != nil {
		return err
	}

	member := req.ToStaffMember()
	member.ID = existing.ID
	member.Active = existing.Active
	if req.DigestOptIn == nil {
		member.DigestOptIn = existing.DigestOptIn
	}

	if err := s.repos.Staff.Update(ctx, member); err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	return nil
}

// SetActive toggles whether a staff member appears in the active directory.
// Entries are never hard-deleted so task and asset history keeps its names.
func (s *StaffSvc) SetActive(ctx context.Context, id int, active bool) error {
	if err := s.repos.Staff.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Infof("Staff member %d active flag set to %t", id, active)

	return nil
}
