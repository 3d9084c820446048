package driver_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/models/driver_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDriverStore struct{ mock.Mock }

func (m *MockDriverStore) List(ctx context.Context) ([]driver_models.Driver, error) {
	args := m.Called(ctx)
	drivers, _ := args.Get(0).([]driver_models.Driver)
	return drivers, args.Error(1)
}

func (m *MockDriverStore) Create(ctx context.Context, nd driver_models.NewDriver) (*driver_models.Driver, error) {
	args := m.Called(ctx, nd)
	d, _ := args.Get(0).(*driver_models.Driver)
	return d, args.Error(1)
}

func (m *MockDriverStore) Update(ctx context.Context, id string, updates map[string]any) (*driver_models.Driver, error) {
	args := m.Called(ctx, id, updates)
	d, _ := args.Get(0).(*driver_models.Driver)
	return d, args.Error(1)
}

func (m *MockDriverStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func setup() (*gin.Engine, *MockDriverStore) {
	gin.SetMode(gin.TestMode)
	store := new(MockDriverStore)
	dc := NewDriverController(store)

	r := gin.New()
	r.GET("/api/drivers", dc.GetDrivers)
	r.POST("/api/drivers", dc.CreateDriver)
	r.PUT("/api/drivers/:id", dc.UpdateDriver)
	r.DELETE("/api/drivers/:id", dc.DeleteDriver)
	return r, store
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetDrivers(t *testing.T) {
	r, store := setup()
	store.On("List", mock.Anything).Return([]driver_models.Driver{{ID: "D1", Name: "Ann"}, {ID: "D2", Name: "Bob"}}, nil)

	w := send(r, http.MethodGet, "/api/drivers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Drivers []driver_models.Driver `json:"drivers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Drivers, 2)
	assert.Equal(t, "Ann", body.Drivers[0].Name)
}

func TestCreateDriver(t *testing.T) {
	r, store := setup()
	loc := "Pier 39"
	store.On("Create", mock.Anything, driver_models.NewDriver{
		Name: "Ann", Email: "ann@example.com", Phone: "555", Vehicle: "Sedan", CurrentLocation: &loc,
	}).Return(&driver_models.Driver{ID: "D1", Name: "Ann", Status: driver_models.StatusAvailable}, nil)

	w := send(r, http.MethodPost, "/api/drivers", map[string]any{
		"name": "Ann", "email": "ann@example.com", "phone": "555", "vehicle": "Sedan", "currentLocation": loc,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestCreateDriver_Invalid(t *testing.T) {
	r, store := setup()

	w := send(r, http.MethodPost, "/api/drivers", map[string]any{"name": "Ann"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDriver_DuplicateEmail(t *testing.T) {
	r, store := setup()
	store.On("Create", mock.Anything, mock.Anything).Return(nil, driver_models.ErrDuplicateEmail)

	w := send(r, http.MethodPost, "/api/drivers", map[string]any{
		"name": "Ann", "email": "ann@example.com", "phone": "555", "vehicle": "Sedan",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateDriver_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", driver_models.ErrDriverNotFound, http.StatusNotFound},
		{"no fields", driver_models.ErrNoFields, http.StatusBadRequest},
		{"not allowed", fmt.Errorf("%w: %q", driver_models.ErrFieldNotAllowed, "id"), http.StatusBadRequest},
		{"ambiguous", fmt.Errorf("%w: current_location", driver_models.ErrAmbiguousField), http.StatusBadRequest},
		{"db", errors.New("conn closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := setup()
			store.On("Update", mock.Anything, "D1", mock.Anything).Return(nil, tt.err)

			w := send(r, http.MethodPut, "/api/drivers/D1", map[string]any{"status": "busy"})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateDriver(t *testing.T) {
	r, store := setup()
	store.On("Update", mock.Anything, "D1", map[string]any{"status": "busy"}).
		Return(&driver_models.Driver{ID: "D1", Status: "busy"}, nil)

	w := send(r, http.MethodPut, "/api/drivers/D1", map[string]any{"status": "busy"})

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestDeleteDriver(t *testing.T) {
	r, store := setup()
	store.On("Delete", mock.Anything, "D1").Return(nil)
	store.On("Delete", mock.Anything, "D9").Return(driver_models.ErrDriverNotFound)

	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/api/drivers/D1", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/api/drivers/D9", nil).Code)
}
