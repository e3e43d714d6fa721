package board

import (
	"net/http"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	ListBoards(c *gin.Context)
	CreateBoard(c *gin.Context)
	GetBoard(c *gin.Context)
	GetBoardSettings(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)
}

type handler struct {
	service Service
	gate    *authz.Gate
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, gate *authz.Gate, logger *zap.Logger) Handler {
	return &handler{service: service, gate: gate, logger: logger.Sugar()}
}

// @Summary List my boards
// @Tags Boards
// @Produce json
// @Security SessionKey
// @Success 200 {object} BoardListResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/boards [get]
func (h *handler) ListBoards(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	boards, err := h.service.ListBoards(ctx, owner.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, BoardListResponse{Boards: boards})
}

// @Summary Create a board
// @Tags Boards
// @Accept json
// @Produce json
// @Security SessionKey
// @Param body body CreateBoardInput true "Board"
// @Success 201 {object} Board
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	var in CreateBoardInput
	if err := utils.BindJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	b, err := h.service.CreateBoard(ctx, owner.ID, in)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, b)
}

// @Summary Get a board
// @Description Public boards are visible to everybody, private boards only to their owner
// @Tags Boards
// @Produce json
// @Param slug path string true "Board slug"
// @Success 200 {object} Board
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{slug} [get]
func (h *handler) GetBoard(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.service.GetVisibleBoard(ctx, identity.FromContext(ctx), c.Param("slug"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, b)
}

// ownedBySlug resolves the slug for the calling customer and aborts the
// request on failure.
func (h *handler) ownedBySlug(c *gin.Context) (*Board, string, bool) {
	ctx := c.Request.Context()
	owner, err := h.gate.RequireCustomer(ctx, identity.FromContext(ctx))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return nil, "", false
	}
	b, err := h.service.GetBoardBySlug(ctx, c.Param("slug"), &owner.ID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return nil, "", false
	}
	return b, owner.ID, true
}

// @Summary Get board settings
// @Tags Boards
// @Produce json
// @Security SessionKey
// @Param slug path string true "Board slug"
// @Success 200 {object} Board
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{slug}/settings [get]
func (h *handler) GetBoardSettings(c *gin.Context) {
	b, _, ok := h.ownedBySlug(c)
	if !ok {
		return
	}
	utils.RespondOK(c, http.StatusOK, b)
}

// @Summary Update a board
// @Description A changed slug is reported as previous_slug so clients can redirect
// @Tags Boards
// @Accept json
// @Produce json
// @Security SessionKey
// @Param slug path string true "Board slug"
// @Param body body UpdateBoardInput true "Fields to change"
// @Success 200 {object} UpdateResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/boards/{slug} [patch]
func (h *handler) UpdateBoard(c *gin.Context) {
	b, ownerID, ok := h.ownedBySlug(c)
	if !ok {
		return
	}
	var in UpdateBoardInput
	if err := utils.BindJSON(c, &in); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	result, err := h.service.UpdateBoard(c.Request.Context(), ownerID, b.ID, in)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, result)
}

// @Summary Delete a board
// @Description Removes the board with all of its feedback, votes and comments
// @Tags Boards
// @Produce json
// @Security SessionKey
// @Param slug path string true "Board slug"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/boards/{slug} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	b, ownerID, ok := h.ownedBySlug(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBoard(c.Request.Context(), ownerID, b.ID); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse{Success: true, Message: "board deleted"})
}
