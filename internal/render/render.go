package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JaimeDevz/weather-app/internal/presenter"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	case "":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

type Options struct {
	Format Format
	// CityTime shows clock times in the city's own zone instead of Local.
	CityTime bool
	Local    *time.Location
}

type LocationDoc struct {
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
	Sunrise string `json:"sunrise" yaml:"sunrise"`
	Sunset  string `json:"sunset" yaml:"sunset"`
}

type CurrentDoc struct {
	Description string  `json:"description" yaml:"description"`
	Icon        string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	TempC       int     `json:"temp_c" yaml:"temp_c"`
	FeelsLikeC  int     `json:"feels_like_c" yaml:"feels_like_c"`
	Humidity    float64 `json:"humidity_pct" yaml:"humidity_pct"`
	PressureHPa float64 `json:"pressure_hpa" yaml:"pressure_hpa"`
	WindSpeed   float64 `json:"wind_speed_ms" yaml:"wind_speed_ms"`
	WindDir     string  `json:"wind_dir" yaml:"wind_dir"`
}

type SlotDoc struct {
	Time  string `json:"time" yaml:"time"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	TempC int    `json:"temp_c" yaml:"temp_c"`
}

type DayDoc struct {
	Day  string `json:"day" yaml:"day"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	MaxC int    `json:"max_c" yaml:"max_c"`
	MinC int    `json:"min_c" yaml:"min_c"`
}

// Document is the structured rendering of a RequestState. Forecast sections
// are filled only for a successful, non-empty result.
type Document struct {
	Status   string       `json:"status" yaml:"status"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
	NoData   bool         `json:"no_data,omitempty" yaml:"no_data,omitempty"`
	Location *LocationDoc `json:"location,omitempty" yaml:"location,omitempty"`
	Current  *CurrentDoc  `json:"current,omitempty" yaml:"current,omitempty"`
	Hourly   []SlotDoc    `json:"hourly,omitempty" yaml:"hourly,omitempty"`
	Daily    []DayDoc     `json:"daily,omitempty" yaml:"daily,omitempty"`
}

func BuildDocument(st presenter.RequestState, opts Options) Document {
	doc := Document{Status: st.Status.String()}
	switch st.Status {
	case presenter.Failed:
		doc.Error = st.Err
		return doc
	case presenter.Succeeded:
	default:
		return doc
	}

	v := presenter.BuildViews(st.Data)
	if v.Empty {
		doc.NoData = true
		return doc
	}

	loc := opts.Local
	if opts.CityTime {
		loc = presenter.CityLocation(v.Location)
	}

	doc.Location = &LocationDoc{
		Name:    v.Location.Name,
		Country: v.Location.Country,
		Sunrise: presenter.FormatClock(v.Location.Sunrise, loc),
		Sunset:  presenter.FormatClock(v.Location.Sunset, loc),
	}

	cur := v.Current
	cond := cur.Condition()
	doc.Current = &CurrentDoc{
		Description: cond.Description,
		Icon:        presenter.IconURL(cond.Icon, true),
		TempC:       presenter.Round(cur.Main.Temp),
		FeelsLikeC:  presenter.Round(cur.Main.FeelsLike),
		Humidity:    cur.Main.Humidity,
		PressureHPa: cur.Main.Pressure,
		WindSpeed:   cur.Wind.Speed,
		WindDir:     presenter.WindDirection(cur.Wind.Deg),
	}

	doc.Hourly = make([]SlotDoc, 0, len(v.Hourly))
	for _, s := range v.Hourly {
		doc.Hourly = append(doc.Hourly, SlotDoc{
			Time:  presenter.FormatClock(s.Dt, loc),
			Icon:  presenter.IconURL(s.Condition().Icon, false),
			TempC: presenter.Round(s.Main.Temp),
		})
	}

	doc.Daily = make([]DayDoc, 0, len(v.Daily))
	for _, s := range v.Daily {
		doc.Daily = append(doc.Daily, DayDoc{
			Day:  presenter.DayLabel(s, loc),
			Icon: presenter.IconURL(s.Condition().Icon, false),
			MaxC: presenter.Round(s.Main.TempMax),
			MinC: presenter.Round(s.Main.TempMin),
		})
	}
	return doc
}

func Render(w io.Writer, st presenter.RequestState, opts Options) error {
	doc := BuildDocument(st, opts)
	switch opts.Format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, doc, st)
	}
}

func renderText(w io.Writer, doc Document, st presenter.RequestState) error {
	var b strings.Builder
	switch {
	case st.Status == presenter.Idle:
		b.WriteString("Welcome to the Weather App!\nSearch for a city to get the latest forecast.\n")
	case st.Status == presenter.Loading:
		b.WriteString("Loading...\n")
	case st.Status == presenter.Failed:
		fmt.Fprintf(&b, "Oops! Something went wrong.\n%s\n", doc.Error)
	case doc.NoData:
		b.WriteString("No weather data available.\nPlease try a different city.\n")
	default:
		writeForecast(&b, doc)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeForecast(b *strings.Builder, doc Document) {
	l, c := doc.Location, doc.Current
	fmt.Fprintf(b, "%s, %s\n", l.Name, l.Country)
	if c.Description != "" {
		fmt.Fprintf(b, "%s\n", c.Description)
	}
	fmt.Fprintf(b, "%d°C  feels like %d°C\n", c.TempC, c.FeelsLikeC)
	fmt.Fprintf(b, "Humidity: %g%%  Pressure: %g hPa  Wind: %g m/s %s\n", c.Humidity, c.PressureHPa, c.WindSpeed, c.WindDir)
	fmt.Fprintf(b, "Sunrise: %s  Sunset: %s\n", l.Sunrise, l.Sunset)

	b.WriteString("\nHourly Forecast\n")
	for _, s := range doc.Hourly {
		fmt.Fprintf(b, "  %s  %4d°C\n", s.Time, s.TempC)
	}

	b.WriteString("\n5-Day Forecast\n")
	for _, d := range doc.Daily {
		fmt.Fprintf(b, "  %s  %4d°C / %d°C\n", d.Day, d.MaxC, d.MinC)
	}
}
