package usecase

import (
	"context"
	"fmt"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/geo"
	"github.com/location-microservice/internal/pkg/errors"
	"github.com/mmcloughlin/geohash"
)

// Seeder is C6: given a region (a name or the nationwide sentinel) and a
// keyword, produces task items and pushes them to the tail of the
// task-queue. In grid mode it first tiles the region's polygon(s) into
// geohash cells at the configured precision (§4.5).
type Seeder struct {
	coord     domainrepo.CoordinationStore
	cityNames []string
	mode      domain.Mode
	cityFile  *CityFile
	ghLength  uint
}

func NewSeeder(coord domainrepo.CoordinationStore, cfg *config.Config, cityFile *CityFile) *Seeder {
	return &Seeder{
		coord:     coord,
		cityNames: cfg.City.Names(),
		mode:      domain.Mode(cfg.Common.Mode),
		cityFile:  cityFile,
		ghLength:  uint(cfg.Common.GeohashLength),
	}
}

// Seed pushes every task item derived from region/keyword to the
// task-queue, returning the count pushed.
func (s *Seeder) Seed(ctx context.Context, region, keyword string) (int, error) {
	if s.mode == domain.ModeGrid {
		return s.seedGrid(ctx, region, keyword)
	}
	return s.seedCity(ctx, region, keyword)
}

func (s *Seeder) seedCity(ctx context.Context, region, keyword string) (int, error) {
	regions := []string{region}
	if region == domain.Nationwide {
		regions = s.cityNames
	}
	for _, r := range regions {
		if err := s.push(ctx, r, keyword); err != nil {
			return 0, err
		}
	}
	return len(regions), nil
}

func (s *Seeder) seedGrid(ctx context.Context, region, keyword string) (int, error) {
	if s.cityFile == nil {
		return 0, fmt.Errorf("grid mode requires a configured city_file")
	}

	var cities []string
	switch {
	case region == domain.Nationwide:
		cities = s.cityNames
	default:
		if provCities, ok := s.cityFile.CitiesInProvince(region); ok {
			cities = provCities
		} else {
			cities = []string{region}
		}
	}

	pushed := 0
	for _, city := range cities {
		polys, ok := s.cityFile.Cities(city)
		if !ok {
			return pushed, errors.ErrRegionNotFound.WithDetails(map[string]interface{}{"region": city})
		}
		for _, poly := range polys {
			cells := geo.PolygonGeohasher(poly, s.ghLength, s.ghLength, true)
			for cell := range cells {
				if err := s.push(ctx, geohashCellBBox(cell), keyword); err != nil {
					return pushed, err
				}
				pushed++
			}
		}
	}
	return pushed, nil
}

// push enqueues one task item at the tail of the task-queue. This is the
// same primitive the crawler uses to requeue failed tasks (RequeueTail);
// seeding a fresh task and requeuing one are the same queue operation.
func (s *Seeder) push(ctx context.Context, region, keyword string) error {
	task := domain.Task{Region: region, Keyword: keyword}
	return s.coord.RequeueTail(ctx, task.String())
}

// geohashCellBBox converts a geohash cell into the "minLat,minLon,maxLat,maxLon"
// task-queue region string (§4.5).
func geohashCellBBox(cell string) string {
	box := geohash.BoundingBox(cell)
	bbox := domain.BBox{MinLat: box.MinLat, MinLon: box.MinLng, MaxLat: box.MaxLat, MaxLon: box.MaxLng}
	return bbox.String()
}
