package vote

import (
	"net/http"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	ToggleVote(c *gin.Context)
	HasVoted(c *gin.Context)
	Lookup(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Toggle my vote
// @Description Adds the caller's vote when absent and removes it when present
// @Tags Votes
// @Produce json
// @Security SessionKey
// @Param id path string true "Feedback ID"
// @Success 200 {object} ToggleResult
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/vote [post]
func (h *handler) ToggleVote(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.service.ToggleVote(ctx, identity.FromContext(ctx), c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, result)
}

// @Summary Did I vote
// @Tags Votes
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/vote [get]
func (h *handler) HasVoted(c *gin.Context) {
	ctx := c.Request.Context()
	voted, err := h.service.HasVoted(ctx, identity.FromContext(ctx), c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"has_voted": voted})
}

// @Summary Batch vote lookup
// @Tags Votes
// @Accept json
// @Produce json
// @Param body body LookupRequest true "Feedback IDs"
// @Success 200 {object} LookupResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/votes/lookup [post]
func (h *handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	voted, err := h.service.VotedMap(ctx, identity.FromContext(ctx), req.FeedbackIDs)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, LookupResponse{Voted: voted})
}
