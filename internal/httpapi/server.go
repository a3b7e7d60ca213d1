package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"battlecalc/internal/combat"
	"battlecalc/internal/service"
)

// NewRouter wires the battle service onto a gin engine.
func NewRouter(svc *service.Service, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{svc: svc}
	api := r.Group("/api")
	{
		api.GET("/rulesets", h.listRulesets)
		api.GET("/rulesets/:ruleset/units", h.listUnits)

		battles := api.Group("/battles")
		{
			battles.POST("", h.createBattle)
			battles.GET("/:id", h.battle)
			battles.DELETE("/:id", h.deleteBattle)
			battles.POST("/:id/advance", h.advance)
			battles.GET("/:id/cumulative", h.cumulative)
			battles.GET("/:id/rounds", h.rounds)
			battles.GET("/:id/rounds/current", h.currentRound)
			battles.GET("/:id/rounds/:index", h.round)
		}
	}
	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

type handlers struct {
	svc *service.Service
}

func (h *handlers) listRulesets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rulesets": h.svc.ListRulesets()})
}

func (h *handlers) listUnits(c *gin.Context) {
	units, err := h.svc.ListUnits(c.Param("ruleset"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ruleset": c.Param("ruleset"), "units": units})
}

func (h *handlers) createBattle(c *gin.Context) {
	var req service.CreateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	info, err := h.svc.CreateBattle(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (h *handlers) battle(c *gin.Context) {
	info, err := h.svc.Info(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) deleteBattle(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) advance(c *gin.Context) {
	info, err := h.svc.Advance(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.svc.Battle(info.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": info, "round": b.RoundStats(info.CurrentRound)})
}

func (h *handlers) cumulative(c *gin.Context) {
	b, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.CumulativeStats())
}

func (h *handlers) rounds(c *gin.Context) {
	b, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"terminalRound": b.TerminalRound(), "rounds": b.AllRoundSummaries()})
}

func (h *handlers) currentRound(c *gin.Context) {
	b, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.CurrentRoundStats())
}

func (h *handlers) round(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "round index must be a non-negative integer"})
		return
	}
	b, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.RoundStats(index))
}

func (h *handlers) lookup(c *gin.Context) (*combat.Battle, bool) {
	b, err := h.svc.Battle(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return b, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, combat.ErrUnknownRuleset), errors.Is(err, service.ErrBattleNotFound):
		return http.StatusNotFound
	case errors.Is(err, combat.ErrUnknownUnitID),
		errors.Is(err, combat.ErrInvalidCount),
		errors.Is(err, combat.ErrEmptyRuleset),
		errors.Is(err, combat.ErrRulesetMismatch),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBuildTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}
