package catalog

import (
	"context"
	"sort"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

// Nearby is a listing annotated with its distance from the query point.
type Nearby struct {
	models.Service
	DistanceKm float64 `json:"distance_km"`
}

// WithCoordinates returns every active listing that can be placed on a map.
func (s *Service) WithCoordinates(ctx context.Context) ([]models.Service, error) {
	return s.store.InBox(ctx, models.GeoBox{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180})
}

func (s *Service) BoundingBox(ctx context.Context, box models.GeoBox) ([]models.Service, error) {
	if box.MinLat > box.MaxLat || box.MinLng > box.MaxLng {
		return nil, models.Invalid("bounds", "min must not exceed max")
	}
	if box.MinLat < -90 || box.MaxLat > 90 || box.MinLng < -180 || box.MaxLng > 180 {
		return nil, models.Invalid("bounds", "out of range")
	}
	return s.store.InBox(ctx, box)
}

// WithinRadius pre-filters by bounding box in the store, then applies the
// exact haversine distance. Results are sorted nearest first.
func (s *Service) WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]Nearby, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, models.Invalid("lat", "coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	minLat, maxLat, minLng, maxLng := utils.BoundingBox(lat, lng, radiusKm)
	candidates, err := s.store.InBox(ctx, models.GeoBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng})
	if err != nil {
		return nil, err
	}

	out := make([]Nearby, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsActive || !c.HasCoordinates() {
			continue
		}
		d := utils.HaversineKm(lat, lng, *c.Latitude, *c.Longitude)
		if d <= radiusKm {
			out = append(out, Nearby{Service: c, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
