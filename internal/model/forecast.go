package model

import "time"

// ForecastSnapshot holds current conditions and up to five daily entries.
type ForecastSnapshot struct {
	CurrentTemperatureC float64      `json:"current_temperature_c"`
	WindSpeedKmh        float64      `json:"wind_speed_kmh"`
	RelativeHumidityPct float64      `json:"relative_humidity_pct"`
	WeatherCode         int          `json:"weather_code"`
	Daily               []DailyEntry `json:"daily"`
}

type DailyEntry struct {
	Date        time.Time `json:"date"`
	MaxTempC    float64   `json:"max_temp_c"`
	MinTempC    float64   `json:"min_temp_c"`
	WeatherCode int       `json:"weather_code"`
}
