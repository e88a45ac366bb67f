package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const mapquestAPIURL = "https://www.mapquestapi.com/geocoding/v1/address"

// Result is the subset of a geocoding response the bootcamp location needs.
type Result struct {
	Lng              float64
	Lat              float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder resolves a free-form address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// MapQuest is a thin client for the MapQuest geocoding API.
type MapQuest struct {
	apiKey     string
	httpClient *http.Client
	configured bool
}

func NewMapQuest(apiKey string) *MapQuest {
	c := &MapQuest{httpClient: &http.Client{Timeout: 10 * time.Second}}
	if apiKey != "" {
		c.apiKey = apiKey
		c.configured = true
	}
	return c
}

func (c *MapQuest) IsConfigured() bool { return c.configured }

type mapquestResp struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Zipcode    string `json:"postalCode"`
			Country    string `json:"adminArea1"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (c *MapQuest) Geocode(ctx context.Context, address string) (*Result, error) {
	if !c.configured {
		return nil, fmt.Errorf("geocoder not configured")
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location", address)
	q.Set("maxResults", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mapquestAPIURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geocoder API error: status %d", resp.StatusCode)
	}

	var body mapquestResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, fmt.Errorf("no geocode result for %q", address)
	}

	loc := body.Results[0].Locations[0]
	return &Result{
		Lng:              loc.LatLng.Lng,
		Lat:              loc.LatLng.Lat,
		FormattedAddress: address,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}, nil
}
