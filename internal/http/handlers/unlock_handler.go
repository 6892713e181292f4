package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/dto"
	"github.com/iconsult/match-backend/internal/http/handlers/common"
	"github.com/iconsult/match-backend/internal/service"
)

// UnlockHandler обслуживает разблокировку контактов.
type UnlockHandler struct {
	unlocks *service.UnlockService
}

// NewUnlockHandler создаёт хэндлер.
func NewUnlockHandler(unlocks *service.UnlockService) *UnlockHandler {
	return &UnlockHandler{unlocks: unlocks}
}

// Unlock обрабатывает POST /unlocks.
// Повторная разблокировка той же цели отдаёт существующую запись с 200.
func (h *UnlockHandler) Unlock(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	actorRole, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UnlockRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор цели")
		return
	}

	result, err := h.unlocks.Unlock(c.Request.Context(), actorID, actorRole, req.TargetType, targetID)
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	c.JSON(status, dto.UnlockResponse{Unlock: result.Unlock, Created: result.Created})
}

// CheckUnlock обрабатывает GET /unlocks/:type/:id.
func (h *UnlockHandler) CheckUnlock(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	unlocked, err := h.unlocks.Exists(c.Request.Context(), actorID, c.Param("type"), targetID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

// History обрабатывает GET /unlocks — разблокировки текущего пользователя.
func (h *UnlockHandler) History(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	unlocks, err := h.unlocks.History(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocks": unlocks, "total": len(unlocks)})
}
