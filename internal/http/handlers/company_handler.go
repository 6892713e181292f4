package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// CompanyHandler обслуживает профили компаний.
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler создаёт хэндлер.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// GetMe обрабатывает GET /companies/me.
func (h *CompanyHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	company, err := h.companies.GetOwn(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// UpdateMe обрабатывает PUT /companies/me.
func (h *CompanyHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateCompanyRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	company, err := h.companies.Update(c.Request.Context(), userID, service.CompanyUpdateInput{
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		LocationCity: req.LocationCity,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// GetCompany обрабатывает GET /companies/:id — публичный профиль без контактов.
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	companyID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	company, err := h.companies.Get(c.Request.Context(), companyID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, company)
}
