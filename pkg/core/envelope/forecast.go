package envelope

// ForecastMeta records how a projection was produced: which inputs backed
// the baseline and which assumptions were applied.
type ForecastMeta struct {
	Source         string         `json:"source"`
	HistoricalRows int            `json:"historicalRows"`
	ForecastMonths int            `json:"forecastMonths"`
	ParametersUsed map[string]any `json:"parametersUsed"`
	Timestamp      string         `json:"timestamp"`
}

// ForecastResponse is the payload shape of projection endpoints.
type ForecastResponse struct {
	Success bool         `json:"success"`
	Data    any          `json:"data"`
	Meta    ForecastMeta `json:"meta"`
}

// NewForecastMeta describes a projection built from historicalRows baseline
// rows. params is copied so later edits by the caller do not leak in.
func NewForecastMeta(historicalRows, months int, params map[string]any) ForecastMeta {
	copied := make(map[string]any, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return ForecastMeta{
		Source:         SourceDatabase,
		HistoricalRows: historicalRows,
		ForecastMonths: months,
		ParametersUsed: copied,
		Timestamp:      timestamp(),
	}
}

// WrapForecast pairs a projection with its meta.
func WrapForecast(data any, meta ForecastMeta) ForecastResponse {
	return ForecastResponse{Success: true, Data: data, Meta: meta}
}
