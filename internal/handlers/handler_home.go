package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Service banner
// @Description Returns a welcome message confirming the API is up.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Welcome to the Ledger Engine API"})
}

func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", getHome)
}
