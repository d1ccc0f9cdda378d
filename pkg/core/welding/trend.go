// Package welding computes the robot scrap economics of the welding shop:
// scrap-rate trends, the investment decision matrix, savings and loss
// projections, and the maintenance-versus-investment payback comparison.
package welding

import (
	"sort"

	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/core/forecast"
	"manufacturing_kds/pkg/models"
)

// RobotScrapTrend is the scrap-rate history of every robot aligned on a
// common year axis.
type RobotScrapTrend struct {
	Years   []int                `json:"yillar"`
	Robots  []string             `json:"robotlar"`
	Series  map[string][]float64 `json:"seriler"`
	Changes map[string]float64   `json:"degisimler"`
}

// ScrapTrend aligns each robot's yearly average scrap rate on the sorted set
// of years (a missing year reads as 0) and averages the year-over-year change
// of its nonzero points. Robots with fewer than two nonzero points get 0.
func ScrapTrend(rows []models.RobotMetricRow) RobotScrapTrend {
	years := uniqueYears(rows)
	robots := uniqueRobots(rows)

	index := make(map[string]map[int]float64, len(robots))
	for _, r := range rows {
		byYear, ok := index[r.RobotCode]
		if !ok {
			byYear = make(map[int]float64)
			index[r.RobotCode] = byYear
		}
		// First row wins when a robot reports twice for the same year.
		if _, seen := byYear[r.Year]; !seen {
			byYear[r.Year] = r.AvgScrapRate
		}
	}

	result := RobotScrapTrend{
		Years:   years,
		Robots:  robots,
		Series:  make(map[string][]float64, len(robots)),
		Changes: make(map[string]float64, len(robots)),
	}
	for _, code := range robots {
		series := make([]float64, len(years))
		nonzero := make([]float64, 0, len(years))
		for i, y := range years {
			v := index[code][y]
			series[i] = calc.Round2(v)
			if v > 0 {
				nonzero = append(nonzero, v)
			}
		}
		result.Series[code] = series

		change := 0.0
		if len(nonzero) >= 2 {
			change = calc.AvgPctChange(nonzero)
		}
		result.Changes[code] = calc.Round2(change)
	}
	return result
}

// ScrapForecastResult projects the plant-wide average scrap rate.
type ScrapForecastResult struct {
	BaseYear   int             `json:"bazYil"`
	BaseValue  float64         `json:"bazDeger"`
	ChangePct  float64         `json:"degisimOrani"`
	Projection forecast.Series `json:"tahmin"`
}

// ScrapForecast compounds the latest yearly average scrap rate. Without
// history the base is 0 and so is every projected month.
func ScrapForecast(yearly []models.PeriodAggregate, changePct float64, months int) ScrapForecastResult {
	var latest models.PeriodAggregate
	for _, p := range yearly {
		if p.Year > latest.Year {
			latest = p
		}
	}
	return ScrapForecastResult{
		BaseYear:   latest.Year,
		BaseValue:  calc.Round2(latest.Value),
		ChangePct:  changePct,
		Projection: forecast.Compound(latest.Value, changePct, months),
	}
}

func uniqueYears(rows []models.RobotMetricRow) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range rows {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

func uniqueRobots(rows []models.RobotMetricRow) []string {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.RobotCode]; ok {
			continue
		}
		seen[r.RobotCode] = struct{}{}
		codes = append(codes, r.RobotCode)
	}
	sort.Strings(codes)
	return codes
}
