package models

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocationInfo is the "city" block of the 5-day/3-hour forecast document.
type LocationInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Coord    Coord  `json:"coord"`
	Timezone int    `json:"timezone"`
	Sunrise  int64  `json:"sunrise"`
	Sunset   int64  `json:"sunset"`
}

type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type ForecastSample struct {
	Dt      int64       `json:"dt"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
	DtTxt   string      `json:"dt_txt"`
}

// Condition returns the primary weather condition, or the zero value when the
// provider sent none.
func (s ForecastSample) Condition() Condition {
	if len(s.Weather) == 0 {
		return Condition{}
	}
	return s.Weather[0]
}

type ForecastResponse struct {
	City LocationInfo     `json:"city"`
	List []ForecastSample `json:"list"`
}

// ErrorBody is the failure payload returned by the gateway.
type ErrorBody struct {
	Message string `json:"message"`
}
