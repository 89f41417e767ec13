package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/model"
)

// Condition is the display text and icon id for a WMO weather code.
type Condition struct {
	Description string
	Icon        string
}

var weatherCodes = map[int]Condition{
	0:  {"Clear sky", "01d"},
	1:  {"Mainly clear", "02d"},
	2:  {"Partly cloudy", "03d"},
	3:  {"Overcast", "04d"},
	45: {"Fog", "50d"},
	48: {"Depositing rime fog", "50d"},
	51: {"Light drizzle", "09d"},
	53: {"Moderate drizzle", "09d"},
	55: {"Dense drizzle", "09d"},
	56: {"Light freezing drizzle", "09d"},
	57: {"Dense freezing drizzle", "09d"},
	61: {"Slight rain", "10d"},
	63: {"Moderate rain", "10d"},
	65: {"Heavy rain", "10d"},
	66: {"Light freezing rain", "13d"},
	67: {"Heavy freezing rain", "13d"},
	71: {"Slight snow fall", "13d"},
	73: {"Moderate snow fall", "13d"},
	75: {"Heavy snow fall", "13d"},
	77: {"Snow grains", "13d"},
	80: {"Slight rain showers", "09d"},
	81: {"Moderate rain showers", "09d"},
	82: {"Violent rain showers", "09d"},
	85: {"Slight snow showers", "13d"},
	86: {"Heavy snow showers", "13d"},
	95: {"Thunderstorm", "11d"},
	96: {"Thunderstorm with slight hail", "11d"},
	99: {"Thunderstorm with heavy hail", "11d"},
}

// DescribeCurrent maps a code for the current-conditions panel.
func DescribeCurrent(code int) Condition {
	if c, ok := weatherCodes[code]; ok {
		return c
	}
	return Condition{Description: "Unknown", Icon: "50d"}
}

// DescribeDaily maps a code for a forecast row; unknown codes use a neutral cloud icon.
func DescribeDaily(code int) Condition {
	if c, ok := weatherCodes[code]; ok {
		return c
	}
	return Condition{Description: "Unknown weather", Icon: "04d"}
}

// Presenter renders a location and forecast snapshot into display strings.
type Presenter struct {
	iconBaseURL string
	now         func() time.Time
}

func NewPresenter(iconBaseURL string) *Presenter {
	if iconBaseURL == "" {
		iconBaseURL = config.GetIconBaseUrl()
	}
	return &Presenter{iconBaseURL: strings.TrimRight(iconBaseURL, "/"), now: time.Now}
}

func (p *Presenter) Render(loc model.Location, snap *model.ForecastSnapshot) *model.WeatherView {
	current := DescribeCurrent(snap.WeatherCode)
	view := &model.WeatherView{
		Location:    loc,
		Date:        p.now().Format("Monday, January 2, 2006"),
		Temperature: fmt.Sprintf("%d°", roundHalfUp(snap.CurrentTemperatureC)),
		Description: current.Description,
		Icon:        current.Icon,
		IconURL:     p.iconBaseURL + "/" + current.Icon + "@4x.png",
		Wind:        fmt.Sprintf("%d km/h", roundHalfUp(snap.WindSpeedKmh)),
		Humidity:    strconv.FormatFloat(snap.RelativeHumidityPct, 'f', -1, 64) + "%",
		Forecast:    make([]model.ForecastItem, 0, len(snap.Daily)),
	}
	for _, d := range snap.Daily {
		cond := DescribeDaily(d.WeatherCode)
		view.Forecast = append(view.Forecast, model.ForecastItem{
			Day:         d.Date.Format("Mon"),
			Icon:        cond.Icon,
			IconURL:     p.iconBaseURL + "/" + cond.Icon + ".png",
			Description: cond.Description,
			MaxTemp:     fmt.Sprintf("%d°C", roundHalfUp(d.MaxTempC)),
			MinTemp:     fmt.Sprintf("%d°C", roundHalfUp(d.MinTempC)),
		})
	}
	return view
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
