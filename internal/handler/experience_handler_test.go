package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExperiences_Handler(t *testing.T) {
	var got repository.ExperienceFilter
	svc := &mockCatalogService{
		listFn: func(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error) {
			got = filter
			return []models.Experience{
				{ID: uuid.New(), Name: "Kayaking", Location: "Udupi", Price: 999, Category: "Water Sports", Description: "long text"},
			}, nil
		},
	}

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/experiences?search=kayak&category=water&location=udupi", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewExperienceHandler(svc).ListExperiences(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repository.ExperienceFilter{Search: "kayak", Category: "water", Location: "udupi"}, got)
	assert.NotContains(t, rec.Body.String(), "long text")

	var resp struct {
		Success bool                    `json:"success"`
		Data    []dto.ExperienceSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Kayaking", resp.Data[0].Name)
}

func TestListExperiences_Handler_Empty(t *testing.T) {
	svc := &mockCatalogService{
		listFn: func(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error) {
			return nil, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/experiences", nil), rec)

	require.NoError(t, NewExperienceHandler(svc).ListExperiences(c))
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestListExperiences_Handler_StoreError(t *testing.T) {
	svc := &mockCatalogService{
		listFn: func(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error) {
			return nil, fmt.Errorf("list experiences: %w", service.ErrStoreUnavailable)
		},
	}

	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/experiences", nil), httptest.NewRecorder())

	err := NewExperienceHandler(svc).ListExperiences(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestGetExperience_Handler_Success(t *testing.T) {
	expID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	svc := &mockCatalogService{
		getFn: func(ctx context.Context, id string) (*models.Experience, error) {
			return &models.Experience{
				ID:     expID,
				Name:   "Coffee Trail",
				MinAge: 6,
				Schedules: []models.Schedule{
					{ID: uuid.New(), Date: date, Time: "09:00", SlotsAvailable: 4, TotalSlots: 10},
				},
			}, nil
		},
	}

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(expID.String())

	err := NewExperienceHandler(svc).GetExperience(c)

	require.NoError(t, err)
	var resp struct {
		Data dto.ExperienceDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, expID, resp.Data.ID)
	assert.Equal(t, 6, resp.Data.MinAge)
	require.Len(t, resp.Data.Schedules, 1)
	assert.Equal(t, 4, resp.Data.Schedules[0].SlotsAvailable)
	assert.Equal(t, 10, resp.Data.Schedules[0].TotalSlots)
}

func TestGetExperience_Handler_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"bad id", service.ErrInvalidID, http.StatusBadRequest},
		{"missing", service.ErrExperienceNotFound, http.StatusNotFound},
		{"store down", fmt.Errorf("get experience: %w", service.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCatalogService{
				getFn: func(ctx context.Context, id string) (*models.Experience, error) {
					return nil, tt.err
				},
			}
			e := newEcho()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues("x")

			err := NewExperienceHandler(svc).GetExperience(c)

			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}
