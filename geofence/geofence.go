package geofence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// boundingBox is an axis-aligned lat/lng box, bounds inclusive.
type boundingBox struct {
	North, South, West, East float64
}

// The three approved regions: continental US, Alaska, Hawaii.
var usaBounds = []boundingBox{
	{North: 49.38, South: 24.52, West: -124.85, East: -66.95},
	{North: 71.44, South: 51.22, West: -179.15, East: -129.98},
	{North: 22.24, South: 18.91, West: -160.25, East: -154.81},
}

// InUSA reports whether the coordinates fall inside any approved region.
// This is the authoritative geofence gate for submissions.
func InUSA(lat, lng float64) bool {
	for _, b := range usaBounds {
		if lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East {
			return true
		}
	}
	return false
}

// Validator runs the geofence check, optionally confirmed by a reverse
// geocoding lookup. Geocoding is a secondary signal only: if the lookup
// fails or is disabled, the bounding-box result stands.
type Validator struct {
	GeocodingEnabled bool
	GeocodingAPIKey  string
	GeocodingURL     string
	Client           *http.Client
}

func NewValidator(enabled bool, apiKey string) *Validator {
	return &Validator{
		GeocodingEnabled: enabled,
		GeocodingAPIKey:  apiKey,
		GeocodingURL:     "https://maps.googleapis.com/maps/api/geocode/json",
		Client:           http.DefaultClient,
	}
}

// Validate returns nil when the location is acceptable and ErrNotInUSA when
// it falls outside every approved region.
func (v *Validator) Validate(ctx context.Context, lat, lng float64) error {
	inBounds := InUSA(lat, lng)

	if v.GeocodingEnabled {
		isUSA, err := v.geocodeCountry(ctx, lat, lng)
		if err != nil {
			// Availability over strictness: a failed lookup falls back to
			// the bounding-box result rather than rejecting the submission.
			log.Printf("geocoding lookup failed, falling back to bounds check: %v", err)
		} else if isUSA {
			return nil
		}
	}

	if !inBounds {
		return ErrNotInUSA
	}
	return nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []struct {
			Types     []string `json:"types"`
			ShortName string   `json:"short_name"`
		} `json:"address_components"`
	} `json:"results"`
}

func (v *Validator) geocodeCountry(ctx context.Context, lat, lng float64) (bool, error) {
	url := fmt.Sprintf("%s?latlng=%f,%f&key=%s", v.GeocodingURL, lat, lng, v.GeocodingAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return false, fmt.Errorf("geocoding API returned no results")
	}

	for _, result := range body.Results {
		for _, component := range result.AddressComponents {
			for _, t := range component.Types {
				if t == "country" && component.ShortName == "US" {
					return true, nil
				}
			}
		}
	}
	return false, nil
}
