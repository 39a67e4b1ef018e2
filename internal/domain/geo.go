package domain

// GeoResult is the best match returned by a geocoding provider.
type GeoResult struct {
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Country          string     `json:"country,omitempty"`
	Postcode         string     `json:"postcode,omitempty"`
	Road             string     `json:"road,omitempty"`
	Suburb           string     `json:"suburb,omitempty"`
}

type MapLinks struct {
	StaticMapURL   string     `json:"staticMapUrl"`
	InteractiveURL string     `json:"interactiveUrl"`
	Coordinates    [2]float64 `json:"coordinates"`
}

type GeocodeResponse struct {
	Result       *GeoResult `json:"result"`
	Map          MapLinks   `json:"map"`
	WithinRegion bool       `json:"withinRegion"`
}

// DistrictInfo is the administrative area around a point, derived from a
// reverse lookup.
type DistrictInfo struct {
	District     string `json:"district"`
	State        string `json:"state"`
	FullAddress  string `json:"fullAddress"`
	WithinRegion bool   `json:"withinRegion"`
}
