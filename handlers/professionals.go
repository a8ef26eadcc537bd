package handlers

import (
	"net/http"

	"theeyouspace/services/professional"

	"github.com/gin-gonic/gin"
)

// ProfessionalHandler serves the directory built from the sheet's bio
// columns.
type ProfessionalHandler struct {
	Directory *professional.Directory
}

func NewProfessionalHandler(directory *professional.Directory) *ProfessionalHandler {
	return &ProfessionalHandler{Directory: directory}
}

// List returns every cached professional sorted by name.
func (h *ProfessionalHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"professionals": h.Directory.GetAll(),
		"loaded":        h.Directory.IsLoaded(),
		"lastSyncAt":    h.Directory.LastSyncAt(),
	})
}

// Get returns one professional by name; unknown names get the safe
// fallback, never a 404.
func (h *ProfessionalHandler) Get(c *gin.Context) {
	p := h.Directory.Get(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"success": true, "professional": p})
}
