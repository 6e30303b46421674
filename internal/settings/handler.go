package settings

import (
	"crypto/subtle"
	"net/http"

	"duffeltravel/pkg/logger"

	"github.com/gin-gonic/gin"
)

const adminTokenHeader = "X-Admin-Token"

type Handler struct {
	store      *Store
	adminToken string
	logger     logger.Logger
}

func NewHandler(store *Store, adminToken string, logger logger.Logger) *Handler {
	return &Handler{
		store:      store,
		adminToken: adminToken,
		logger:     logger,
	}
}

// RegisterRoutes mounts the settings endpoints. Without an admin token they stay unmounted.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	if h.adminToken == "" {
		h.logger.Warn("admin token not configured, settings endpoints disabled")
		return
	}

	admin := router.Group("/admin")
	admin.Use(RequireAdminToken(h.adminToken))
	admin.GET("/settings", h.GetSettingsHandler)
	admin.POST("/settings", h.UpdateSettingsHandler)
	admin.DELETE("/settings", h.ClearSettingsHandler)
}

type settingsRequest struct {
	APIKey      string `form:"duffel_api_key" json:"duffel_api_key"`
	Environment string `form:"duffel_api_environment" json:"duffel_api_environment"`
}

type settingsResponse struct {
	Configured  bool        `json:"configured"`
	APIKey      string      `json:"duffel_api_key"`
	Environment Environment `json:"duffel_api_environment"`
}

// GetSettingsHandler godoc
// @Summary      Read provider settings
// @Description  Returns the API environment and a masked API key
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Success      200 {object} settingsResponse
// @Failure      401 {object} map[string]string
// @Router       /admin/settings [get]
func (h *Handler) GetSettingsHandler(c *gin.Context) {
	current, err := h.store.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load settings", logger.Field{Key: "err", Value: err})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings unavailable"})
		return
	}

	c.JSON(http.StatusOK, toResponse(current))
}

// UpdateSettingsHandler godoc
// @Summary      Update provider settings
// @Description  Stores the Duffel API key and environment. An empty key keeps the current one.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Param        request body settingsRequest true "Settings"
// @Success      200 {object} settingsResponse
// @Failure      400 {object} map[string]string
// @Router       /admin/settings [post]
func (h *Handler) UpdateSettingsHandler(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	saved, err := h.store.Save(c.Request.Context(), Settings{
		APIKey:      req.APIKey,
		Environment: Environment(req.Environment),
	})
	if err != nil {
		h.logger.Error("failed to save settings", logger.Field{Key: "err", Value: err})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings unavailable"})
		return
	}

	c.JSON(http.StatusOK, toResponse(saved))
}

// ClearSettingsHandler godoc
// @Summary      Clear provider settings
// @Description  Removes the stored API key and resets the environment to test
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Success      200 {object} settingsResponse
// @Failure      401 {object} map[string]string
// @Router       /admin/settings [delete]
func (h *Handler) ClearSettingsHandler(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear settings", logger.Field{Key: "err", Value: err})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings unavailable"})
		return
	}

	c.JSON(http.StatusOK, toResponse(Settings{Environment: EnvironmentTest}))
}

func toResponse(s Settings) settingsResponse {
	return settingsResponse{
		Configured:  s.APIKey != "",
		APIKey:      MaskKey(s.APIKey),
		Environment: s.Environment,
	}
}

// RequireAdminToken rejects requests whose X-Admin-Token header does not match token.
func RequireAdminToken(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(adminTokenHeader))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
