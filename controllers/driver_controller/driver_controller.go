package driver_controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/driver_models"
)

type driverStore interface {
	List(ctx context.Context) ([]driver_models.Driver, error)
	Create(ctx context.Context, nd driver_models.NewDriver) (*driver_models.Driver, error)
	Update(ctx context.Context, id string, updates map[string]any) (*driver_models.Driver, error)
	Delete(ctx context.Context, id string) error
}

type DriverController struct {
	store driverStore
}

func NewDriverController(store driverStore) *DriverController {
	return &DriverController{store: store}
}

type CreateDriverRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone" binding:"required,max=20"`
	Vehicle         string  `json:"vehicle" binding:"required"`
	Status          string  `json:"status"`
	CurrentLocation *string `json:"currentLocation"`
}

func (dc *DriverController) GetDrivers(c *gin.Context) {
	drivers, err := dc.store.List(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Get drivers error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (dc *DriverController) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}

	driver, err := dc.store.Create(c.Request.Context(), driver_models.NewDriver{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Vehicle:         req.Vehicle,
		Status:          req.Status,
		CurrentLocation: req.CurrentLocation,
	})
	if err != nil {
		respondError(c, err, "Failed to add driver")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "driver": driver})
}

// UpdateDriver applies a partial update restricted to the roster's editable columns.
func (dc *DriverController) UpdateDriver(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Request body must be a JSON object"})
		return
	}

	driver, err := dc.store.Update(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		respondError(c, err, "Failed to update driver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "driver": driver})
}

func (dc *DriverController) DeleteDriver(c *gin.Context) {
	if err := dc.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete driver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Driver deleted successfully"})
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, driver_models.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Driver not found"})
	case errors.Is(err, driver_models.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "A driver with this email already exists"})
	case errors.Is(err, driver_models.ErrNoFields),
		errors.Is(err, driver_models.ErrFieldNotAllowed),
		errors.Is(err, driver_models.ErrAmbiguousField),
		errors.Is(err, driver_models.ErrMissingAttribute):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}
