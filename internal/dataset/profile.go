package dataset

import (
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"healthdash/domain/health"
)

// IndicatorProfile summarizes one indicator across the whole dataset
type IndicatorProfile struct {
	Indicator health.Indicator `json:"indicator"`
	Label     string           `json:"label"`
	Count     int              `json:"count"`
	Missing   int              `json:"missing"`
	Min       float64          `json:"min"`
	Max       float64          `json:"max"`
	Mean      float64          `json:"mean"`
	Median    float64          `json:"median"`
	StdDev    float64          `json:"std_dev"`
}

// Profiles computes per-indicator summary statistics. The four
// indicators are profiled concurrently on first call; the store is
// immutable so the result is computed once and cached.
func (s *Store) Profiles() map[health.Indicator]IndicatorProfile {
	s.profileOnce.Do(func() {
		indicators := health.Indicators()
		results := make([]IndicatorProfile, len(indicators))

		var g errgroup.Group
		for i, ind := range indicators {
			i, ind := i, ind
			g.Go(func() error {
				results[i] = s.profileIndicator(ind)
				return nil
			})
		}
		// Workers only write their own slot and never fail.
		_ = g.Wait()

		s.profiles = make(map[health.Indicator]IndicatorProfile, len(results))
		for _, p := range results {
			s.profiles[p.Indicator] = p
		}
	})
	return s.profiles
}

func (s *Store) profileIndicator(ind health.Indicator) IndicatorProfile {
	profile := IndicatorProfile{
		Indicator: ind,
		Label:     ind.Label(),
		Missing:   s.report.Missing[ind],
	}

	var data stats.Float64Data
	for _, row := range s.rows {
		if v := row.Value(ind); v.Valid {
			data = append(data, v.Float64)
		}
	}
	profile.Count = len(data)
	if len(data) == 0 {
		return profile
	}

	profile.Min, _ = stats.Min(data)
	profile.Max, _ = stats.Max(data)
	profile.Mean, _ = stats.Mean(data)
	profile.Median, _ = stats.Median(data)
	if len(data) > 1 {
		profile.StdDev, _ = stats.StandardDeviation(data)
	}
	return profile
}
