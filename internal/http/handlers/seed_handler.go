package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации демо-данных.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed генерирует демо-данные. POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	req := dto.SeedRequest{
		Candidates: common.ParseIntQuery(c, "candidates", 30),
		Companies:  common.ParseIntQuery(c, "companies", 10),
		Listings:   common.ParseIntQuery(c, "listings", 20),
	}
	if c.Request.Method == http.MethodPost && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	if req.Candidates < 1 || req.Candidates > 500 ||
		req.Companies < 1 || req.Companies > 200 ||
		req.Listings < 0 || req.Listings > 1000 {
		common.RespondBadRequest(c, "размеры выборки вне допустимого диапазона")
		return
	}

	if err := h.seed.SeedData(c.Request.Context(), req.Candidates, req.Companies, req.Listings); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "демо-данные сгенерированы", gin.H{
		"candidates": req.Candidates,
		"companies":  req.Companies,
		"listings":   req.Listings,
		"password":   "Seed1234",
	})
}
