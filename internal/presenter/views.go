package presenter

import (
	"math"
	"time"

	"github.com/JaimeDevz/weather-app/internal/models"
)

const (
	hourlySlots = 8
	// The provider reports every 3 hours, so 8 samples approximate one day.
	samplesPerDay = 8
	dailySlots    = 5
)

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Views is what a renderer needs for one forecast. When Empty is set Current
// is nil and both slices are empty.
type Views struct {
	Location models.LocationInfo
	Current  *models.ForecastSample
	Hourly   []models.ForecastSample
	Daily    []models.ForecastSample
	Empty    bool
}

func BuildViews(resp *models.ForecastResponse) Views {
	v := Views{Hourly: []models.ForecastSample{}, Daily: []models.ForecastSample{}}
	if resp == nil {
		v.Empty = true
		return v
	}
	v.Location = resp.City

	list := resp.List
	if len(list) == 0 {
		v.Empty = true
		return v
	}

	current := list[0]
	v.Current = &current

	end := min(1+hourlySlots, len(list))
	v.Hourly = append(v.Hourly, list[1:end]...)

	for i := 0; i < len(list) && len(v.Daily) < dailySlots; i += samplesPerDay {
		v.Daily = append(v.Daily, list[i])
	}
	return v
}

// WindDirection maps degrees to the nearest of 8 compass points.
func WindDirection(deg float64) string {
	i := int(math.Floor(deg/45+0.5)) % 8
	if i < 0 {
		i += 8
	}
	return compassPoints[i]
}

// FormatClock renders a unix timestamp as HH:MM in loc, or local time when loc is nil.
func FormatClock(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(unix, 0).In(loc).Format("15:04")
}

// DayLabel is the short weekday of a sample, taken from its timestamp.
func DayLabel(s models.ForecastSample, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(s.Dt, 0).In(loc).Format("Mon")
}

// CityLocation is the fixed-offset zone the provider reports for the city.
func CityLocation(info models.LocationInfo) *time.Location {
	return time.FixedZone(info.Name, info.Timezone)
}

func IconURL(code string, large bool) string {
	if code == "" {
		return ""
	}
	if large {
		return "https://openweathermap.org/img/wn/" + code + "@2x.png"
	}
	return "https://openweathermap.org/img/wn/" + code + ".png"
}

// Round rounds halves up (-0.5 becomes 0).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
