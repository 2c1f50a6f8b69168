package usecase

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// cityEntry is one row of the grid-mode city file: a city's polygon
// footprint plus the province it belongs to.
type cityEntry struct {
	province string
	geometry orb.Geometry
}

// CityFile is the grid-mode seeder's loaded `PROV_CITY|...:WKT` mapping
// (§4.5), grounded on PushRegion.py's city_df: one row per city, indexed
// by city name, with a province -> city list built alongside it.
type CityFile struct {
	cities    map[string]cityEntry
	provinces map[string][]string
}

// LoadCityFile reads the grid-mode polygon file. Each line has the form
// `PROV_CITY|suffix:WKT`; the label's `_`-joined prefix before the first
// underscore is the province, the remainder is the city name.
func LoadCityFile(path string) (*CityFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city file: %w", err)
	}
	defer f.Close()

	cf := &CityFile{
		cities:    make(map[string]cityEntry),
		provinces: make(map[string][]string),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		label, wktStr := parts[0], parts[1]
		provCity := strings.SplitN(label, "|", 2)[0]
		pc := strings.SplitN(provCity, "_", 2)
		if len(pc) != 2 {
			continue
		}
		province, city := pc[0], pc[1]

		geom, err := wkt.UnmarshalString(wktStr)
		if err != nil {
			return nil, fmt.Errorf("parse polygon for %q: %w", city, err)
		}

		cf.cities[city] = cityEntry{province: province, geometry: geom}
		cf.provinces[province] = append(cf.provinces[province], city)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read city file: %w", err)
	}
	return cf, nil
}

// Cities returns the polygon(s) for city, flattened to a slice of simple
// polygons regardless of whether the source geometry was a Polygon or a
// MultiPolygon (§4.5: "flattened if multi-polygon").
func (cf *CityFile) Cities(city string) ([]orb.Polygon, bool) {
	entry, ok := cf.cities[city]
	if !ok {
		return nil, false
	}
	switch g := entry.geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}, true
	case orb.MultiPolygon:
		return []orb.Polygon(g), true
	default:
		return nil, false
	}
}

// CitiesInProvince returns the list of city names belonging to province.
func (cf *CityFile) CitiesInProvince(province string) ([]string, bool) {
	cities, ok := cf.provinces[province]
	return cities, ok
}
