package handlers

import (
	"net/http"

	"github.com/kova98/articleanalyzer.api/models"
)

const ServiceName = "Article Analyzer API"

type StatusHandler struct {
	status models.StatusResponse
}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{
		status: models.StatusResponse{Status: "online", Service: ServiceName},
	}
}

func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) Result {
	return Ok(h.status)
}
