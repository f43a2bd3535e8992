package handler

import (
	"github.com/gin-gonic/gin"

	"tradejournal/internal/repository"
)

type InstrumentHandler struct {
	Repo repository.Repository
}

func (h *InstrumentHandler) Register(r *gin.Engine) {
	r.GET("/api/instruments", h.list)
}

// @Summary List tradeable instruments
// @Tags instruments
// @Produce json
// @Success 200 {object} handler.apiResponse
// @Router /api/instruments [get]
func (h *InstrumentHandler) list(c *gin.Context) {
	items, err := h.Repo.ListInstruments(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, items, nil)
}
