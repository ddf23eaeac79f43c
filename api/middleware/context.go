package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const contextAccountIDKey = "auth_account_id"

func SetAuthContext(c echo.Context, accountID uuid.UUID) {
	c.Set(contextAccountIDKey, accountID)
}

func AccountIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextAccountIDKey)
	accountID, ok := value.(uuid.UUID)
	return accountID, ok
}
