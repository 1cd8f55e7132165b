// Package timezone resolves the local time zone of a coordinate pair.
package timezone

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

// Service looks up IANA zones with tzf. The finder holds its polygon data
// in memory, so one Service is shared by the whole process.
type Service struct {
	finder tzf.F
}

var (
	instance *Service
	initErr  error
	once     sync.Once
)

// NewService returns the process-wide timezone service.
func NewService() (*Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("init timezone finder: %w", err)
			return
		}
		instance = &Service{finder: finder}
	})
	return instance, initErr
}

// Name returns the IANA zone name for the coordinates, e.g. "Asia/Karachi".
func (s *Service) Name(lat, lon float64) (string, error) {
	name := s.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no timezone for lat=%f lon=%f", lat, lon)
	}
	return name, nil
}

// Location returns the loaded zone for the coordinates.
func (s *Service) Location(lat, lon float64) (*time.Location, error) {
	name, err := s.Name(lat, lon)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", name, err)
	}
	return loc, nil
}
