package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finance-tracker/internal/service"
)

type GroupHandler struct {
	logger    *zap.Logger
	groupServ *service.GroupService
}

func NewGroupHandler(logger *zap.Logger, groupServ *service.GroupService) *GroupHandler {
	return &GroupHandler{logger: logger, groupServ: groupServ}
}

// Create maneja POST /api/shared-groups. Los emails desconocidos se ignoran.
func (h *GroupHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	var req struct {
		Name         string   `json:"name" binding:"required"`
		MemberEmails []string `json:"member_emails" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create group", err)
		return
	}
	group, err := h.groupServ.Create(c.Request.Context(), user.ID, req.Name, req.MemberEmails)
	if err != nil {
		writeServiceError(c, h.logger, "create group", err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// List maneja GET /api/shared-groups.
func (h *GroupHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	groups, err := h.groupServ.List(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, h.logger, "list groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}
