package model

// WeatherView is the display-ready rendering of a location and its forecast.
type WeatherView struct {
	Location    Location       `json:"location"`
	Date        string         `json:"date"`
	Temperature string         `json:"temperature"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	IconURL     string         `json:"icon_url"`
	Wind        string         `json:"wind"`
	Humidity    string         `json:"humidity"`
	Forecast    []ForecastItem `json:"forecast"`
}

type ForecastItem struct {
	Day         string `json:"day"`
	Icon        string `json:"icon"`
	IconURL     string `json:"icon_url"`
	Description string `json:"description"`
	MaxTemp     string `json:"max_temp"`
	MinTemp     string `json:"min_temp"`
}
