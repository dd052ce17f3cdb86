package handler

import (
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/service"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	Payment      *PaymentHandler
	Task         *TaskHandler
	Asset        *AssetHandler
	Staff        *StaffHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Digest       *DigestHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		Payment:      NewPaymentHandler(deps.Services.Payment, deps.Services.Export, deps.Logger, deps.Config),
		Task:         NewTaskHandler(deps.Services.Task, deps.Logger, deps.Config),
		Asset:        NewAssetHandler(deps.Services.Asset, deps.Services.Export, deps.Logger, deps.Config),
		Staff:        NewStaffHandler(deps.Services.Staff, deps.Logger, deps.Config),
		Notification: NewNotificationHandler(deps.Services.Notification, deps.Logger, deps.Config),
		Dashboard:    NewDashboardHandler(deps.Services.Dashboard, deps.Services.Rates, deps.Logger, deps.Config),
		Digest:       NewDigestHandler(deps.Services.Digest, deps.Logger, deps.Config),
	}
}
