package handler

import (
	"strconv"

	accountapp "github.com/bilemo/api/internal/application/account"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles /api/clients
type ClientHandler struct {
	BaseHandler
	clientService *accountapp.ClientService
	pagination    config.PaginationConfig
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *accountapp.ClientService, pagination config.PaginationConfig) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		pagination:    pagination,
	}
}

// List returns one page of clients with their customers
func (h *ClientHandler) List(c *gin.Context) {
	page, err := parsePageRequest(c, h.pagination)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.clientService.List(c.Request.Context(), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, result)
}

// GetByID returns a single client
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, "Le client n'existe pas")
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create registers a client, optionally with new customers
func (h *ClientHandler) Create(c *gin.Context) {
	var req accountapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "/api/clients/"+strconv.FormatInt(client.ID, 10), client)
}

// Update applies a partial update
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, "Le client n'existe pas")
		return
	}

	var req accountapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.clientService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, "Le client n'existe pas")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
