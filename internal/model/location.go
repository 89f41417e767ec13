package model

// Location is a resolved place: canonical display name plus coordinates.
type Location struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Suggestion is one autocomplete entry for a partially typed city name.
type Suggestion struct {
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
