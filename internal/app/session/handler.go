package session

import (
	"context"
	"net/http"

	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	RequestCode(c *gin.Context)
	Verify(c *gin.Context)
	SignOut(c *gin.Context)
	Me(c *gin.Context)
}

type CustomerLookup interface {
	ForIdentity(ctx context.Context, id identity.Identity) (*customer.Customer, error)
}

type handler struct {
	service   Service
	customers CustomerLookup
	logger    *zap.SugaredLogger
}

func NewHandler(service Service, customers CustomerLookup, logger *zap.Logger) Handler {
	return &handler{service: service, customers: customers, logger: logger.Sugar()}
}

// @Summary Request a sign-in code
// @Description Emails a one-time code used to sign in for voting and commenting
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RequestCodeRequest true "Email"
// @Success 202 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/otp [post]
func (h *handler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	if err := h.service.RequestCode(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, utils.SuccessResponse{Success: true, Message: "sign-in code sent"})
}

// @Summary Verify a sign-in code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyCodeRequest true "Email and code"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/verify [post]
func (h *handler) Verify(c *gin.Context) {
	var req VerifyCodeRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	resp, err := h.service.Verify(c.Request.Context(), req.Email, req.Code, c.GetHeader("User-Agent"))
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, resp)
}

// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/session [delete]
func (h *handler) SignOut(c *gin.Context) {
	if err := h.service.End(c.Request.Context(), identity.SessionKeyFromRequest(c.Request)); err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse{Success: true, Message: "signed out"})
}

// @Summary Current identity
// @Description Returns the signed-in email and, for board owners, their customer record
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Router /api/auth/me [get]
func (h *handler) Me(c *gin.Context) {
	id := identity.FromContext(c.Request.Context())
	if id.IsAnonymous() {
		utils.RespondOK(c, http.StatusOK, MeResponse{Anonymous: true})
		return
	}
	cust, err := h.customers.ForIdentity(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, MeResponse{Email: id.Email(), Customer: cust})
}
