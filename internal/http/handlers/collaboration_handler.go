package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/service"
)

// CollaborationHandler обслуживает жизненный цикл сотрудничеств.
type CollaborationHandler struct {
	collaborations *service.CollaborationService
}

// NewCollaborationHandler создаёт хэндлер.
func NewCollaborationHandler(collaborations *service.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{collaborations: collaborations}
}

// Start обрабатывает POST /collaborations. Компания нанимает кандидата
// (candidate_id, опционально listing_id); консультант откликается на
// вакансию (listing_id). Инициатор обязан заранее разблокировать контрагента.
func (h *CollaborationHandler) Start(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.StartCollaborationRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var listingID *uuid.UUID
	if req.ListingID != nil && *req.ListingID != "" {
		parsed, err := uuid.Parse(*req.ListingID)
		if err != nil {
			common.RespondBadRequest(c, "неверный идентификатор вакансии")
			return
		}
		listingID = &parsed
	}

	var collaboration *models.Collaboration
	if role == models.RoleConsultant {
		if listingID == nil {
			common.RespondBadRequest(c, "идентификатор вакансии обязателен")
			return
		}
		collaboration, err = h.collaborations.StartForListing(c.Request.Context(), userID, *listingID)
	} else {
		candidateID, parseErr := uuid.Parse(req.CandidateID)
		if parseErr != nil {
			common.RespondBadRequest(c, "неверный идентификатор кандидата")
			return
		}
		collaboration, err = h.collaborations.Start(c.Request.Context(), userID, candidateID, listingID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, collaboration)
}

// End обрабатывает POST /collaborations/end — консультант завершает
// своё активное сотрудничество.
func (h *CollaborationHandler) End(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	collaboration, err := h.collaborations.EndOwn(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, collaboration)
}

// ListMy обрабатывает GET /collaborations/my.
// Консультант видит свои сотрудничества, компания — свои.
func (h *CollaborationHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var collaborations []models.Collaboration
	if role == models.RoleCompany {
		collaborations, err = h.collaborations.ListForCompany(c.Request.Context(), userID)
	} else {
		collaborations, err = h.collaborations.ListForConsultant(c.Request.Context(), userID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": collaborations, "total": len(collaborations)})
}
