package handler

import (
	"strconv"

	accountapp "github.com/bilemo/api/internal/application/account"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

const customerNotFound = "Le consommateur n'existe pas"

// CustomerHandler handles /api/customers. Every operation is scoped to the
// authenticated client unless it is an administrator.
type CustomerHandler struct {
	BaseHandler
	customerService *accountapp.CustomerService
	pagination      config.PaginationConfig
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *accountapp.CustomerService, pagination config.PaginationConfig) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		pagination:      pagination,
	}
}

func (h *CustomerHandler) List(c *gin.Context) {
	page, err := parsePageRequest(c, h.pagination)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.customerService.List(c.Request.Context(), actorID(c), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, result)
}

func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, customerNotFound)
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), actorID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req accountapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "/api/customers/"+strconv.FormatInt(customer.ID, 10), customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, customerNotFound)
		return
	}

	var req accountapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.customerService.Update(c.Request.Context(), actorID(c), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, customerNotFound)
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
