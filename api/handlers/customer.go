package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// CustomerHandler handles HTTP requests for customer profiles.
type CustomerHandler struct {
	customers *repository.CustomerRepository
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List handles GET /api/customers - lists all customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list customers: "+err.Error())
		return
	}
	if customers == nil {
		customers = []*model.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/customers/:id - gets a customer profile.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid customer ID")
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			sendError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get customer: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, customer)
}

// RegisterRoutes registers the customer handler routes on a Gin router group.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
	}
}

// parseID parses the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
