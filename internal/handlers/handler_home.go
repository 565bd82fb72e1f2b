package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome responds with a static banner so load balancers and humans can tell
// the service is up.
func GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "fundledger", "status": "ok"})
}
