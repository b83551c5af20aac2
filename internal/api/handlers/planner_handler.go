package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/rules"
	"github.com/optilens/replenish/internal/service"
)

type PlannerHandler struct {
	service *service.PlannerService
	catalog *rules.Catalog
}

func NewPlannerHandler(service *service.PlannerService, catalog *rules.Catalog) *PlannerHandler {
	return &PlannerHandler{service: service, catalog: catalog}
}

// planRequest is the wire shape of one optimization request.
type planRequest struct {
	SKUs           []domain.SKU         `json:"skus" binding:"required"`
	History        map[string][]float64 `json:"history,omitempty"`
	MinOrderVolume int                  `json:"min_order,omitempty"`
	UseDefaultRule bool                 `json:"use_default_rule,omitempty"`
	PlanDate       string               `json:"plan_date,omitempty"`
}

type categoriesRequest struct {
	Categories map[string]planRequest `json:"categories" binding:"required"`
}

func (r planRequest) toService() (service.PlanRequest, error) {
	out := service.PlanRequest{
		SKUs:                  r.SKUs,
		History:               forecast.History(r.History),
		MinOrderVolume:        r.MinOrderVolume,
		DefaultRuleForUnknown: r.UseDefaultRule,
	}
	if r.PlanDate != "" {
		t, err := time.Parse(domain.PlanDate, r.PlanDate)
		if err != nil {
			return out, err
		}
		out.PlanDate = t
	}
	return out, nil
}

// PlanCategory handles POST /api/v1/optimizer/category.
func (h *PlannerHandler) PlanCategory(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	svcReq, err := req.toService()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_date: " + err.Error()})
		return
	}

	plan, err := h.service.PlanCategory(c.Request.Context(), svcReq)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// PlanCategories handles POST /api/v1/optimizer/categories.
func (h *PlannerHandler) PlanCategories(c *gin.Context) {
	var req categoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	groups := make(map[string]service.PlanRequest, len(req.Categories))
	for name, pr := range req.Categories {
		svcReq, err := pr.toService()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category " + name + ": invalid plan_date: " + err.Error()})
			return
		}
		groups[name] = svcReq
	}

	plans, err := h.service.PlanCategories(c.Request.Context(), groups)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// DeliveryRules handles GET /api/v1/delivery/rules: the full category rule
// table, so integrators can see lead times and order constraints per category.
func (h *PlannerHandler) DeliveryRules(c *gin.Context) {
	categories := h.catalog.Categories()
	out := make(map[string]domain.CategoryRule, len(categories))
	for _, cat := range categories {
		if rule, ok := h.catalog.Rule(cat); ok {
			out[string(cat)] = rule
		}
	}
	c.JSON(http.StatusOK, gin.H{"rules": out, "default": rules.DefaultRule})
}

func respondPlanError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrEmptySnapshot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRuleNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
