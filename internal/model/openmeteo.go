package model

// GeocodeResponse is the body of the geocoding search endpoint.
// Results is absent when nothing matched.
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReverseGeocodeResponse is the body of the reverse geocoding endpoint.
type ReverseGeocodeResponse struct {
	City        string `json:"city"`
	Locality    string `json:"locality"`
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
}

// ForecastResponse mirrors the forecast endpoint. Current and Daily are
// pointers so a missing section can be told apart from a zero one.
type ForecastResponse struct {
	Current *struct {
		Temperature2m      float64 `json:"temperature_2m"`
		RelativeHumidity2m float64 `json:"relative_humidity_2m"`
		WeatherCode        int     `json:"weather_code"`
		WindSpeed10m       float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily *struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}
