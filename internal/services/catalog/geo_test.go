package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func at(title string, lat, lng float64, active bool) models.Service {
	return models.Service{Title: title, Latitude: &lat, Longitude: &lng, IsActive: active}
}

func TestService_WithinRadius(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	// Monas, Jakarta
	lat, lng := -6.1754, 106.8272
	st.On("InBox", ctx, mock.MatchedBy(func(b models.GeoBox) bool {
		return b.Contains(lat, lng) && b.MaxLat-b.MinLat < 1
	})).Return([]models.Service{
		at("far corner of box", -6.2554, 106.9072, true), // ~12.6 km
		at("close", -6.1800, 106.8300, true),             // ~0.6 km
		at("inactive", -6.1760, 106.8280, false),
		{Title: "no coords", IsActive: true},
		at("closer", -6.1760, 106.8275, true),
	}, nil)

	got, err := svc.WithinRadius(ctx, lat, lng, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "closer", got[0].Title)
	assert.Equal(t, "close", got[1].Title)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)
}

func TestService_BoundingBox_Validation(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	_, err := svc.BoundingBox(ctx, models.GeoBox{MinLat: 1, MaxLat: 0, MinLng: 0, MaxLng: 1})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.BoundingBox(ctx, models.GeoBox{MinLat: -91, MaxLat: 0, MinLng: 0, MaxLng: 1})
	assert.ErrorIs(t, err, models.ErrValidation)

	box := models.GeoBox{MinLat: -7, MaxLat: -6, MinLng: 106, MaxLng: 107}
	st.On("InBox", ctx, box).Return([]models.Service{at("x", -6.5, 106.5, true)}, nil)
	got, err := svc.BoundingBox(ctx, box)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
