package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// ListingHandler обслуживает вакансии и их выдачу.
type ListingHandler struct {
	listings *service.ListingService
	ranking  *service.RankingService
}

// NewListingHandler создаёт хэндлер.
func NewListingHandler(listings *service.ListingService, ranking *service.RankingService) *ListingHandler {
	return &ListingHandler{listings: listings, ranking: ranking}
}

func (h *ListingHandler) bindInput(c *gin.Context) (service.ListingInput, bool) {
	var req dto.ListingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return service.ListingInput{}, false
	}
	return service.ListingInput{
		Title:        req.Title,
		Description:  req.Description,
		LocationCity: req.LocationCity,
		Country:      req.Country,
		ContractType: req.ContractType,
		SkillNames:   req.Skills,
	}, true
}

// Create обрабатывает POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), userID, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// Update обрабатывает PUT /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), userID, listingID, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Delete обрабатывает DELETE /listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.listings.Delete(c.Request.Context(), userID, listingID); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "вакансия удалена", nil)
}

// GetListing обрабатывает GET /listings/:id.
// Контакты компании замаскированы, пока зритель не разблокировал вакансию.
func (h *ListingHandler) GetListing(c *gin.Context) {
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

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, company, unlocked, err := h.listings.GetForViewer(c.Request.Context(), listingID, viewerID, viewerRole)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListingDetailResponse{
		Listing:  listing,
		Company:  company,
		Unlocked: unlocked,
	})
}

// ListMy обрабатывает GET /listings/my — вакансии компании, включая закрытые.
func (h *ListingHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	listings, err := h.listings.ListOwn(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

// ListListings обрабатывает GET /listings — выдача вакансий для консультанта.
func (h *ListingHandler) ListListings(c *gin.Context) {
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

	ranked, err := h.ranking.RankListings(c.Request.Context(), viewerID, params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": ranked, "total": len(ranked)})
}
