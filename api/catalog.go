package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitalis/starbooking/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

type destinationResponse struct {
	Name           string           `json:"name"`
	Prices         map[string]int64 `json:"prices"`
	Accommodations []string         `json:"accommodations"`
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:name/accommodations", h.accommodations)
	router.GET("/:name/recommendation", h.recommendation)
}

func (h *CatalogHandler) list(c *gin.Context) {
	destinations := h.catalog.Destinations()
	out := make([]destinationResponse, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, destinationResponse{
			Name:           d.Name,
			Prices:         d.Prices,
			Accommodations: d.Accommodations,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) accommodations(c *gin.Context) {
	options, err := h.catalog.AccommodationOptions(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accommodations": options})
}

func (h *CatalogHandler) recommendation(c *gin.Context) {
	pick, err := h.catalog.RecommendAccommodation(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": pick})
}
