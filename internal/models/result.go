package models

// GeocodeResult is the outcome of a forward geocode.
type GeocodeResult struct {
	FormattedAddress string  `json:"fma"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lon"`
}

// DetailedResult is produced for every address of a batch detail run.
// An empty Concerns list means the numbers of the three addresses agree.
type DetailedResult struct {
	InputAddress     string   `json:"ina"`
	FormattedAddress string   `json:"fma"`
	Latitude         float64  `json:"lat"`
	Longitude        float64  `json:"lon"`
	ReverseAddress   string   `json:"rva"`
	Concerns         []string `json:"concerns"`
}
