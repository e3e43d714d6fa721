package feedback

import (
	"net/http"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Submit(c *gin.Context)
	ListPublic(c *gin.Context)
	ListForOwner(c *gin.Context)
	GetFeedback(c *gin.Context)
	Approve(c *gin.Context)
	SetStatus(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service Service
	boards  board.Service
	gate    *authz.Gate
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, boards board.Service, gate *authz.Gate, logger *zap.Logger) Handler {
	return &handler{service: service, boards: boards, gate: gate, logger: logger.Sugar()}
}

// @Summary Submit feedback
// @Description Public submission endpoint used by the embeddable widget. Anonymous callers are allowed.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param body body SubmitInput true "Feedback"
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/feedback [post]
func (h *handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := utils.DecodeJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	f, requiresApproval, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	message := "Feedback submitted successfully"
	if requiresApproval {
		message = "Feedback submitted and awaiting approval"
	}
	c.JSON(http.StatusCreated, SubmitResponse{Success: true, Message: message, Feedback: f})
}

// @Summary List public feedback
// @Tags Feedback
// @Produce json
// @Param slug path string true "Board slug"
// @Param type query string false "bug, improvement or feedback"
// @Param sort query string false "recent (default) or votes"
// @Success 200 {object} ListResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{slug}/feedback [get]
func (h *handler) ListPublic(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.boards.GetVisibleBoard(ctx, identity.FromContext(ctx), c.Param("slug"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	items, err := h.service.ListPublic(ctx, b.ID, Type(c.Query("type")), Sort(c.Query("sort")))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, ListResponse{Feedback: items})
}

// @Summary Owner dashboard
// @Description Lists every feedback item of the board including pending ones
// @Tags Feedback
// @Produce json
// @Security SessionKey
// @Param slug path string true "Board slug"
// @Param filter query string false "all (default), pending or approved"
// @Success 200 {object} ListResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/boards/{slug}/dashboard [get]
func (h *handler) ListForOwner(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	b, err := h.boards.GetBoardBySlug(ctx, c.Param("slug"), &owner.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	items, err := h.service.ListForOwner(ctx, owner.ID, b.ID, ApprovalFilter(c.Query("filter")))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, ListResponse{Feedback: items})
}

// @Summary Get feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} Feedback
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id} [get]
func (h *handler) GetFeedback(c *gin.Context) {
	ctx := c.Request.Context()
	f, err := h.service.Get(ctx, identity.FromContext(ctx), c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, f)
}

// @Summary Approve feedback
// @Tags Feedback
// @Produce json
// @Security SessionKey
// @Param id path string true "Feedback ID"
// @Success 200 {object} Feedback
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/approve [post]
func (h *handler) Approve(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	f, err := h.service.Approve(ctx, owner.ID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, f)
}

// @Summary Change feedback status
// @Tags Feedback
// @Accept json
// @Produce json
// @Security SessionKey
// @Param id path string true "Feedback ID"
// @Param body body StatusInput true "New status"
// @Success 200 {object} Feedback
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/status [patch]
func (h *handler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	var in StatusInput
	if err := utils.BindJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	f, err := h.service.SetStatus(ctx, owner.ID, c.Param("id"), in.Status)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, f)
}

// @Summary Delete feedback
// @Tags Feedback
// @Produce json
// @Security SessionKey
// @Param id path string true "Feedback ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id} [delete]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	if err := h.service.Delete(ctx, owner.ID, c.Param("id")); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse{Success: true, Message: "feedback deleted"})
}
