package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home renders the landing page; the hero differs for logged in visitors.
func Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", gin.H{"Title": ""})
}
