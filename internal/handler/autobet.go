package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/middleware"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

type AutoBetHandler struct{}

func NewAutoBetHandler() *AutoBetHandler {
	return &AutoBetHandler{}
}

func (h *AutoBetHandler) Start(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}

	var req model.AutoBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	risk, err := model.ParseRiskTier(req.Risk)
	if err != nil {
		middleware.Abort(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}

	status, err := table.StartAutoBet(req.Stake, risk, model.SegmentCount(req.Segments), req.Config.ToConfig())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, status)
}

func (h *AutoBetHandler) Status(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}
	status := table.AutoBetStatus()
	if status == nil {
		middleware.Abort(c, apperrors.New(apperrors.ErrNotFound, "no autobet has run in this session", nil))
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *AutoBetHandler) Cancel(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}
	status, err := table.CancelAutoBet()
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
