// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAccountID gets the authenticated account id from context
func GetAccountID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetAccountID gets the account id from context or panics
func MustGetAccountID(c *gin.Context) int64 {
	id, exists := GetAccountID(c)
	if !exists {
		panic("account_id not found in context")
	}
	return id
}

// GetAccountEmail gets the account email from context
func GetAccountEmail(c *gin.Context) string {
	return c.GetString("account_email")
}

// GetAccountName gets the account display name from context
func GetAccountName(c *gin.Context) string {
	return c.GetString("account_name")
}
