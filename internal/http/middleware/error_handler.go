package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/iconsult/match-backend/internal/logger"
	"github.com/iconsult/match-backend/internal/repository"
	"github.com/iconsult/match-backend/internal/service"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			// Логируем ошибку
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			statusCode, message := mapError(err.Err)
			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}

// mapError переводит доменные ошибки в HTTP статус и сообщение для клиента.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "пользователь не найден"
	case errors.Is(err, repository.ErrCandidateNotFound):
		return http.StatusNotFound, "кандидат не найден"
	case errors.Is(err, repository.ErrCompanyNotFound):
		return http.StatusNotFound, "компания не найдена"
	case errors.Is(err, repository.ErrListingNotFound):
		return http.StatusNotFound, "вакансия не найдена"
	case errors.Is(err, repository.ErrSkillNotFound):
		return http.StatusNotFound, "навык не найден"
	case errors.Is(err, repository.ErrNotificationNotFound):
		return http.StatusNotFound, "уведомление не найдено"
	case errors.Is(err, repository.ErrCollaborationNotFound):
		return http.StatusNotFound, "сотрудничество не найдено"
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "сессия не найдена"

	case errors.Is(err, repository.ErrCandidateUnavailable):
		return http.StatusConflict, "кандидат уже занят"
	case errors.Is(err, repository.ErrListingInactive):
		return http.StatusConflict, "вакансия уже закрыта"
	case errors.Is(err, repository.ErrUnlockRequired):
		return http.StatusConflict, "сначала разблокируйте контакты кандидата"
	case errors.Is(err, repository.ErrNoActiveCollaboration):
		return http.StatusConflict, "активное сотрудничество отсутствует"

	case errors.Is(err, repository.ErrListingForeign),
		errors.Is(err, service.ErrTargetForbidden),
		errors.Is(err, service.ErrNotListingOwner),
		errors.Is(err, service.ErrNotProfileOwner):
		return http.StatusForbidden, "доступ запрещён"

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "неверный email или пароль"

	case errors.Is(err, service.ErrInvalidTargetType):
		return http.StatusBadRequest, "неверный тип цели разблокировки"
	}

	errStr := err.Error()
	if errStr != "" && !containsInternalKeywords(errStr) {
		statusCode := http.StatusInternalServerError
		if contains(errStr, "неверный") || contains(errStr, "невалид") || contains(errStr, "должн") {
			statusCode = http.StatusBadRequest
		} else if contains(errStr, "нет прав") || contains(errStr, "не авторизован") {
			statusCode = http.StatusForbidden
		}
		return statusCode, errStr
	}

	return http.StatusInternalServerError, "внутренняя ошибка сервера"
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
