package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// SkillHandler обслуживает каталог навыков.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler создаёт хэндлер.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// ListSkills обрабатывает GET /skills.
func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills, "total": len(skills)})
}

// CreateSkill обрабатывает POST /skills (админ).
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ids, err := h.skills.Resolve(c.Request.Context(), []string{req.Name})
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	skill, err := h.skills.Get(c.Request.Context(), ids[0])
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}
