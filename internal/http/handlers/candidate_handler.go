package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// CandidateHandler обслуживает профили кандидатов и их выдачу.
type CandidateHandler struct {
	candidates *service.CandidateService
	ranking    *service.RankingService
}

// NewCandidateHandler создаёт хэндлер.
func NewCandidateHandler(candidates *service.CandidateService, ranking *service.RankingService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, ranking: ranking}
}

// GetMe обрабатывает GET /candidates/me.
func (h *CandidateHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	candidate, err := h.candidates.GetOwn(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// UpdateMe обрабатывает PUT /candidates/me.
func (h *CandidateHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateCandidateRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	candidate, err := h.candidates.Update(c.Request.Context(), userID, service.CandidateUpdateInput{
		DisplayName:     req.DisplayName,
		Headline:        req.Headline,
		YearsExperience: req.YearsExperience,
		LocationCity:    req.LocationCity,
		Country:         req.Country,
		Availability:    req.Availability,
		ContactEmail:    req.ContactEmail,
		Phone:           req.Phone,
		PhotoURL:        req.PhotoURL,
		CVURL:           req.CVURL,
		SkillNames:      req.Skills,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// GetCandidate обрабатывает GET /candidates/:id.
// Контакты замаскированы, пока зритель не разблокировал кандидата.
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	viewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	viewerRole, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	candidateID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	candidate, unlocked, err := h.candidates.GetForViewer(c.Request.Context(), candidateID, viewerID, viewerRole)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CandidateResponse{Candidate: candidate, Unlocked: unlocked})
}

// ListCandidates обрабатывает GET /candidates — выдача кандидатов для компании.
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	viewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	params, err := parseRankParams(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ranked, err := h.ranking.RankCandidates(c.Request.Context(), viewerID, params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": ranked, "total": len(ranked)})
}
