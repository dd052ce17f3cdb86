package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// AssetSvc is an implementation of the service.AssetService interface
type AssetSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
}

// NewAssetService creates a new AssetSvc
func NewAssetService(deps Dependencies) *AssetSvc {
	return &AssetSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
	}
}

// Create registers a new asset in the inventory
func (s *AssetSvc) Create(ctx context.Context, req *models.AssetRequest) (int, error) {
	if err := req.ValidateAssetRequest(); err != nil {
		return 0, fmt.Errorf("invalid asset request: %w", err)
	}

	if req.AssignedTo != nil {
		if _, err := s.repos.Staff.GetByID(ctx, *req.AssignedTo); err != nil {
			return 0, fmt.Errorf("staff member not found: %w", err)
		}
	}

	asset := req.ToAsset()
	if asset.AssignedTo != nil {
		asset.Status = models.AssetStatusInUse
	}

	id, err := s.repos.Asset.Create(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("failed to create asset: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.Infof("Asset created: %d (%s, serial %s)", id, asset.Name, asset.SerialNumber)

	return id, nil
}

// GetByID gets an asset by ID
func (s *AssetSvc) GetByID(ctx context.Context, id int) (*models.Asset, error) {
	return s.repos.Asset.GetByID(ctx, id)
}

// GetAll gets assets, optionally filtered by status
func (s *AssetSvc) GetAll(ctx context.Context, status models.AssetStatus) ([]*models.Asset, error) {
	if status != "" && !models.ValidAssetStatus(status) {
		return nil, fmt.Errorf("unknown asset status: %s", status)
	}

	return s.repos.Asset.GetAll(ctx, status)
}

// Update updates an asset's editable fields. Assignment moves through Assign.
func (s *AssetSvc) Update(ctx context.Context, id int, req *models.AssetRequest) error {
	if err := req.ValidateAssetRequest(); err != nil {
		return fmt.Errorf("invalid asset request: %w", err)
	}

	existing, err := s.repos.Asset.GetByID(ctx, id)
	if err != nil {
		return err
	}

	asset := req.ToAsset()
	asset.ID = existing.ID
	if req.Status == "" {
		asset.Status = existing.Status
	}

	if err := s.repos.Asset.Update(ctx, asset); err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	s.invalidateDashboard(ctx)

	return nil
}

// Assign hands an asset to a staff member, or returns it to storage when
// staffID is nil. The assignee gets an in-portal notification.
func (s *AssetSvc) Assign(ctx context.Context, id int, staffID *int) error {
	asset, err := s.repos.Asset.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if asset.Status == models.AssetStatusRetired {
		return fmt.Errorf("asset %d is retired and cannot be assigned", id)
	}

	if staffID != nil {
		if _, err := s.repos.Staff.GetByID(ctx, *staffID); err != nil {
			return fmt.Errorf("staff member not found: %w", err)
		}
	}

	if err := s.repos.Asset.Assign(ctx, id, staffID); err != nil {
		return err
	}

	if staffID != nil {
		notification := &models.Notification{
			RecipientID: *staffID,
			Kind:        models.NotificationKindAsset,
			Title:       "Equipment assigned to you",
			Body:        fmt.Sprintf("%s (serial %s)", asset.Name, asset.SerialNumber),
		}
		if _, err := s.repos.Notification.Create(ctx, notification); err != nil {
			s.logger.Warnf("Failed to notify staff member %d: %v", *staffID, err)
		} else if err := s.cache.Delete(ctx, unreadCountCacheKey(*staffID)); err != nil {
			s.logger.Warnf("Failed to invalidate unread count cache: %v", err)
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.Infof("Asset %d assignment changed", id)

	return nil
}

// Delete deletes an asset
func (s *AssetSvc) Delete(ctx context.Context, id int) error {
	if err := s.repos.Asset.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)

	return nil
}

func (s *AssetSvc) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warnf("Failed to invalidate dashboard cache: %v", err)
	}
}
