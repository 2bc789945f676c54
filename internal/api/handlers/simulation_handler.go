package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andresuchdata/logisim/internal/cache"
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// Simulate runs a new simulation. An empty body uses the defaults.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req service.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	run, err := h.service.Simulate(c.Request.Context(), req)
	if err != nil {
		if run != nil {
			log.Error().Err(err).Str("run_id", run.ID).Msg("simulation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed", "details": err.Error(), "run": run})
			return
		}
		h.handleError(c, err, "failed to run simulation")
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (h *SimulationHandler) GetRun(c *gin.Context) {
	run, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "failed to fetch simulation")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *SimulationHandler) GetLatest(c *gin.Context) {
	run, err := h.service.Latest(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "failed to fetch latest simulation")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *SimulationHandler) DeleteRun(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err, "failed to delete simulation")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SimulationHandler) GetReport(c *gin.Context) {
	rep, err := h.service.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "failed to build report")
		return
	}
	h.writeReport(c, rep)
}

func (h *SimulationHandler) GetLatestReport(c *gin.Context) {
	rep, err := h.service.LatestReport(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "failed to build report")
		return
	}
	h.writeReport(c, rep)
}

// writeReport answers with the plain text report for ?format=text.
func (h *SimulationHandler) writeReport(c *gin.Context, rep *service.RunReport) {
	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, rep.Text)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetAlerts lists the alerts of a run, filtered by ?severity when given.
func (h *SimulationHandler) GetAlerts(c *gin.Context) {
	severity := strings.TrimSpace(c.Query("severity"))
	if severity != "" {
		parsed, ok := domain.ParseSeverity(severity)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid severity", "details": severity})
			return
		}
		severity = parsed.String()
	}

	alerts, err := h.service.Alerts(c.Request.Context(), c.Param("id"), severity)
	if err != nil {
		h.handleError(c, err, "failed to fetch alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts, "total": len(alerts)})
}

func (h *SimulationHandler) GetIndicators(c *gin.Context) {
	run, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "failed to fetch indicators")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": run.IndicatorHistory()})
}

func (h *SimulationHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

// Reset forgets every stored run.
func (h *SimulationHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		h.handleError(c, err, "failed to reset simulations")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SimulationHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
	case errors.Is(err, cache.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "simulation not found", "details": err.Error()})
	default:
		log.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
