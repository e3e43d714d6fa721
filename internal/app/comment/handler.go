package comment

import (
	"net/http"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	List(c *gin.Context)
	Count(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	MarkOfficial(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary List comments
// @Description Comments in chronological order
// @Tags Comments
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} ListResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/comments [get]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	comments, err := h.service.List(ctx, identity.FromContext(ctx), c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, ListResponse{Comments: comments, Count: len(comments)})
}

// @Summary Count comments
// @Tags Comments
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/comments/count [get]
func (h *handler) Count(c *gin.Context) {
	ctx := c.Request.Context()
	count, err := h.service.Count(ctx, identity.FromContext(ctx), c.Param("id"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"count": count})
}

// @Summary Add a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security SessionKey
// @Param id path string true "Feedback ID"
// @Param body body ContentInput true "Comment"
// @Success 201 {object} Comment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/feedback/{id}/comments [post]
func (h *handler) Create(c *gin.Context) {
	var in ContentInput
	if err := utils.DecodeJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	comment, err := h.service.Create(ctx, identity.FromContext(ctx), c.Param("id"), in.Content)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, comment)
}

// @Summary Edit a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security SessionKey
// @Param id path string true "Comment ID"
// @Param body body ContentInput true "New content"
// @Success 200 {object} Comment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/comments/{id} [patch]
func (h *handler) Update(c *gin.Context) {
	var in ContentInput
	if err := utils.DecodeJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	comment, err := h.service.Update(ctx, identity.FromContext(ctx), c.Param("id"), in.Content)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, comment)
}

// @Summary Delete a comment
// @Description Allowed for the author and the board owner
// @Tags Comments
// @Produce json
// @Security SessionKey
// @Param id path string true "Comment ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/comments/{id} [delete]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, identity.FromContext(ctx), c.Param("id")); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse{Success: true, Message: "comment deleted"})
}

// @Summary Mark an official response
// @Tags Comments
// @Accept json
// @Produce json
// @Security SessionKey
// @Param id path string true "Comment ID"
// @Param body body OfficialInput true "Official flag"
// @Success 200 {object} Comment
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/comments/{id}/official [post]
func (h *handler) MarkOfficial(c *gin.Context) {
	var in OfficialInput
	if err := utils.BindJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	comment, err := h.service.MarkOfficial(ctx, identity.FromContext(ctx), c.Param("id"), *in.IsOfficial)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, comment)
}
