package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/JaimeDevz/weather-app/internal/models"
	"github.com/JaimeDevz/weather-app/internal/presenter"

	"gopkg.in/yaml.v3"
)

func forecast(n int) *models.ForecastResponse {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC).Unix() // Monday
	list := make([]models.ForecastSample, n)
	for i := range list {
		list[i] = models.ForecastSample{
			Dt:      base + int64(i)*3*3600,
			Main:    models.Main{Temp: 20.6, FeelsLike: 19.4, TempMin: 14.2, TempMax: 22.5, Humidity: 55, Pressure: 1013},
			Weather: []models.Condition{{Description: "scattered clouds", Icon: "03d"}},
			Wind:    models.Wind{Speed: 4.1, Deg: 92},
		}
	}
	return &models.ForecastResponse{
		City: models.LocationInfo{Name: "London", Country: "GB", Sunrise: base - 4*3600, Sunset: base + 11*3600},
		List: list,
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "TEXT": Text, "json": JSON, " yaml ": YAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestBuildDocumentSucceeded(t *testing.T) {
	st := presenter.RequestState{Status: presenter.Succeeded, Data: forecast(40)}
	doc := BuildDocument(st, Options{Local: time.UTC})

	if doc.Status != "succeeded" || doc.NoData {
		t.Fatalf("unexpected doc header %+v", doc)
	}
	if doc.Location.Name != "London" || doc.Location.Sunrise != "05:00" || doc.Location.Sunset != "20:00" {
		t.Fatalf("unexpected location %+v", doc.Location)
	}
	c := doc.Current
	if c.TempC != 21 || c.FeelsLikeC != 19 || c.WindDir != "E" || c.Icon != "https://openweathermap.org/img/wn/03d@2x.png" {
		t.Fatalf("unexpected current %+v", c)
	}
	if len(doc.Hourly) != 8 || doc.Hourly[0].Time != "12:00" {
		t.Fatalf("unexpected hourly %+v", doc.Hourly)
	}
	if len(doc.Daily) != 5 {
		t.Fatalf("expected 5 days, got %d", len(doc.Daily))
	}
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	for i, d := range doc.Daily {
		if d.Day != days[i] || d.MaxC != 23 || d.MinC != 14 {
			t.Fatalf("daily[%d] = %+v", i, d)
		}
	}
}

func TestBuildDocumentCityTime(t *testing.T) {
	data := forecast(1)
	data.City.Timezone = 3600
	doc := BuildDocument(presenter.RequestState{Status: presenter.Succeeded, Data: data}, Options{Local: time.UTC, CityTime: true})
	if doc.Location.Sunrise != "06:00" {
		t.Fatalf("expected city-local sunrise 06:00, got %s", doc.Location.Sunrise)
	}
}

func TestBuildDocumentStates(t *testing.T) {
	prior := forecast(3)
	tests := []struct {
		name string
		st   presenter.RequestState
		want Document
	}{
		{"idle", presenter.RequestState{}, Document{Status: "idle"}},
		{"loading keeps nothing", presenter.RequestState{Status: presenter.Loading, Data: prior}, Document{Status: "loading"}},
		{"failed", presenter.RequestState{Status: presenter.Failed, Err: "city not found", Data: prior}, Document{Status: "failed", Error: "city not found"}},
		{"no data", presenter.RequestState{Status: presenter.Succeeded, Data: &models.ForecastResponse{}}, Document{Status: "succeeded", NoData: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDocument(tt.st, Options{})
			if got.Status != tt.want.Status || got.Error != tt.want.Error || got.NoData != tt.want.NoData || got.Current != nil || got.Location != nil {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		st   presenter.RequestState
		want []string
	}{
		{"idle", presenter.RequestState{}, []string{"Welcome to the Weather App!"}},
		{"loading", presenter.RequestState{Status: presenter.Loading}, []string{"Loading..."}},
		{"failed", presenter.RequestState{Status: presenter.Failed, Err: "city not found"}, []string{"Oops! Something went wrong.", "city not found"}},
		{"no data", presenter.RequestState{Status: presenter.Succeeded, Data: &models.ForecastResponse{}}, []string{"No weather data available."}},
		{"forecast", presenter.RequestState{Status: presenter.Succeeded, Data: forecast(40)}, []string{"London, GB", "scattered clouds", "21°C", "Wind: 4.1 m/s E", "Hourly Forecast", "5-Day Forecast", "Fri"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, tt.st, Options{Format: Text, Local: time.UTC}); err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Fatalf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestRenderJSONAndYAML(t *testing.T) {
	st := presenter.RequestState{Status: presenter.Succeeded, Data: forecast(10)}

	var jbuf bytes.Buffer
	if err := Render(&jbuf, st, Options{Format: JSON, Local: time.UTC}); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var fromJSON Document
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}

	var ybuf bytes.Buffer
	if err := Render(&ybuf, st, Options{Format: YAML, Local: time.UTC}); err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	var fromYAML Document
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml output invalid: %v", err)
	}

	if fromJSON.Location.Name != "London" || fromYAML.Location.Name != "London" {
		t.Fatalf("location lost in structured output")
	}
	if len(fromJSON.Hourly) != 8 || len(fromYAML.Daily) != 2 {
		t.Fatalf("unexpected sections json=%d yaml=%d", len(fromJSON.Hourly), len(fromYAML.Daily))
	}
	if !strings.Contains(ybuf.String(), "status: succeeded") {
		t.Fatalf("yaml missing status:\n%s", ybuf.String())
	}
}
