package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/middleware"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/service"
)

type GameHandler struct {
	sessions *service.SessionManager
}

func NewGameHandler(sessions *service.SessionManager) *GameHandler {
	return &GameHandler{sessions: sessions}
}

func (h *GameHandler) PlaceBet(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}

	var req model.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	risk, err := model.ParseRiskTier(req.Risk)
	if err != nil {
		middleware.Abort(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}

	bet, err := table.PlaceBet(req.Stake, risk, model.SegmentCount(req.Segments))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, model.BetResponse{Bet: bet, Balance: table.Ledger.Balance()})
}

func (h *GameHandler) State(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, table.State())
}

func (h *GameHandler) History(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.Abort(c, apperrors.NewInvalidRequest("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, model.HistoryResponse{Bets: table.Bets(limit)})
}

func (h *GameHandler) Deposit(c *gin.Context) {
	table, ok := tableOrAbort(c)
	if !ok {
		return
	}

	var req model.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperrors.NewInvalidRequest(err.Error()))
		return
	}
	balance, err := table.Deposit(req.Amount)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DepositResponse{Balance: balance})
}

// Tables lists the multiplier table and expected return of every risk tier.
func (h *GameHandler) Tables(c *gin.Context) {
	eng := h.sessions.Engine()
	resp := model.TablesResponse{
		Tables:   make([]model.TableView, 0, len(model.RiskTiers)),
		Segments: model.SegmentCounts,
	}
	for _, tier := range model.RiskTiers {
		t, ok := eng.Table(tier)
		if !ok {
			continue
		}
		view := model.TableView{Risk: tier, RTP: t.RTP()}
		for _, e := range t {
			view.Entries = append(view.Entries, model.TableEntryView{Multiplier: e.Multiplier, Probability: e.Probability})
		}
		resp.Tables = append(resp.Tables, view)
	}
	c.JSON(http.StatusOK, resp)
}

// Sessions lists open sessions; mounted behind AdminMiddleware.
func (h *GameHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, model.SessionsResponse{Sessions: h.sessions.ListSessions()})
}

func tableOrAbort(c *gin.Context) (*service.Table, bool) {
	table, ok := middleware.TableFrom(c)
	if !ok {
		middleware.Abort(c, apperrors.New(apperrors.ErrInternal, "missing session context", nil))
		return nil, false
	}
	return table, true
}
