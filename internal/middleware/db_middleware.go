package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/internal/ticketing"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

// LedgerMiddleware injects the reservation ledger so handlers share one
// lock registry per process.
func LedgerMiddleware(ledger *ticketing.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("ledger", ledger)
		c.Next()
	}
}
