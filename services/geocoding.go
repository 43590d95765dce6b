package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GeocodingService resolves free-form addresses through the OpenStreetMap
// Nominatim API, the same provider the mobile client uses for its location
// picker. BaseURL is swappable for tests.
type GeocodingService struct {
	BaseURL string
	Client  *http.Client
}

func NewGeocodingService() *GeocodingService {
	return &GeocodingService{
		BaseURL: "https://nominatim.openstreetmap.org",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type GeocodeResult struct {
	DisplayName string         `json:"display_name"`
	Lat         string         `json:"lat"`
	Lon         string         `json:"lon"`
	Address     GeocodeAddress `json:"address"`
}

type GeocodeAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// Search geocodes a free-form query and returns up to five candidates.
func (gs *GeocodingService) Search(query string) ([]GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")

	body, err := gs.get(gs.BaseURL + "/search?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var results []GeocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Reverse looks up the address at a coordinate pair.
func (gs *GeocodingService) Reverse(lat, lon string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", lat)
	params.Set("lon", lon)

	body, err := gs.get(gs.BaseURL + "/reverse?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var result GeocodeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (gs *GeocodingService) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "rentify-server/1.0")

	res, err := gs.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding: status %d: %s", res.StatusCode, string(body))
	}
	return body, nil
}
