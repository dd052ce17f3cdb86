package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/service"
	"ops-portal/pkg/utils"
)

// DigestHandler handles weekly digest HTTP requests
type DigestHandler struct {
	digestService service.DigestService
	logger        *logrus.Logger
	config        *configs.Config
}

// NewDigestHandler creates a new DigestHandler
func NewDigestHandler(digestService service.DigestService, logger *logrus.Logger, config *configs.Config) *DigestHandler {
	return &DigestHandler{
		digestService: digestService,
		logger:        logger,
		config:        config,
	}
}

// Preview handles building the digest without sending it
func (h *DigestHandler) Preview(w http.ResponseWriter, r *http.Request) {
	report, err := h.digestService.Preview(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to build digest preview: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build digest preview")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "digest preview built successfully", report)
}

// Send handles triggering a digest delivery manually
func (h *DigestHandler) Send(w http.ResponseWriter, r *http.Request) {
	run, err := h.digestService.Send(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to send digest: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to send digest")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "digest run recorded", run)
}
