package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	log               *zap.Logger
}

func NewMembershipHandler(membershipService service.MembershipService, log *zap.Logger) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService, log: log}
}

type ChangePlanRequest struct {
	Plan domain.Plan `json:"plan"`
}

// GetMembership godoc
// @Summary My membership
// @Tags Membership
// @Produce json
// @Success 200 {object} service.Membership
// @Failure 404 {object} gin.H "No coach has enrolled this email"
// @Router /membership [get]
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	member, ok := mustUser(c)
	if !ok {
		return
	}

	membership, err := h.membershipService.Get(c.Request.Context(), member)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"membership": membership})
}

// ChangePlan godoc
// @Summary Switch my plan
// @Tags Membership
// @Accept json
// @Produce json
// @Param body body ChangePlanRequest true "New plan"
// @Success 200 {object} service.Membership
// @Failure 400 {object} gin.H "Unknown plan"
// @Router /membership/plan [put]
func (h *MembershipHandler) ChangePlan(c *gin.Context) {
	member, ok := mustUser(c)
	if !ok {
		return
	}
	var req ChangePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.membershipService.ChangePlan(c.Request.Context(), member, req.Plan)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "plan updated", "membership": membership})
}
