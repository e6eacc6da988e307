package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// currentUserID извлекает UUID пользователя, установленный Authenticate middleware.
// Возвращает false и пишет ответ, если пользователь не аутентифицирован
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}

	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}

	return userUUID, true
}

// isAdmin возвращает признак администратора из контекста Gin
func isAdmin(c *gin.Context) bool {
	admin, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	adminBool, ok := admin.(bool)
	return ok && adminBool
}

// parseUUIDParam парсит UUID из параметра URL.
// Возвращает false и пишет ответ при неверном формате
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
