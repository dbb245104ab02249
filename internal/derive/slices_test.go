package derive

import (
	"testing"

	"healthdash/domain/health"
	"healthdash/internal/dataset"
	"healthdash/internal/testkit"
)

func TestCompetitionRanking(t *testing.T) {
	store, err := dataset.FromTable(testkit.RankFixtureTable())
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}

	rows := ComputeCurrentSlice(store, []string{"Arizona", "Colorado", "Nevada"}, 2020, health.IndicatorObesity)
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}

	// Values 20, 35, 35: both 35s share rank 1, rank 2 is skipped,
	// the 20 lands on rank 3.
	wantRanks := map[string]int{"Arizona": 3, "Colorado": 1, "Nevada": 1}
	for _, row := range rows {
		if row.Rank != wantRanks[row.State] {
			t.Errorf("%s rank = %d, want %d", row.State, row.Rank, wantRanks[row.State])
		}
	}
}

func TestMissingValuesDroppedBeforeRanking(t *testing.T) {
	store := testkit.MustSampleStore()

	// New York's 2020 smoking cell is N/A, so only three states rank.
	rows := ComputeCurrentSlice(store,
		[]string{"Alabama", "Alaska", "Texas", "New York"},
		2020, health.IndicatorSmoking)
	if len(rows) != 3 {
		t.Fatalf("rows = %v, want New York dropped", rows)
	}

	// Ranks stay dense over the survivors: 19.2 > 17.4 > 13.2.
	wantRanks := map[string]int{"Alabama": 1, "Alaska": 2, "Texas": 3}
	for _, row := range rows {
		if row.Rank != wantRanks[row.State] {
			t.Errorf("%s rank = %d, want %d", row.State, row.Rank, wantRanks[row.State])
		}
	}
}

func TestCurrentSliceCarriesRegions(t *testing.T) {
	store := testkit.MustSampleStore()

	rows := ComputeCurrentSlice(store, []string{"Alabama", "Alaska", "New York"}, 2020, health.IndicatorObesity)
	regions := map[string]health.Region{}
	for _, row := range rows {
		regions[row.State] = row.Region
	}
	if regions["Alabama"] != health.RegionSouth {
		t.Errorf("Alabama region = %s", regions["Alabama"])
	}
	if regions["Alaska"] != health.RegionWest {
		t.Errorf("Alaska region = %s", regions["Alaska"])
	}
	if regions["New York"] != health.RegionNortheast {
		t.Errorf("New York region = %s", regions["New York"])
	}
}

func TestCurrentSliceSelectionOrder(t *testing.T) {
	store := testkit.MustSampleStore()

	rows := ComputeCurrentSlice(store, []string{"Texas", "Alabama"}, 2020, health.IndicatorObesity)
	if len(rows) != 2 || rows[0].State != "Texas" || rows[1].State != "Alabama" {
		t.Errorf("rows = %v, want selection order preserved", rows)
	}
}

func TestTrendSliceGrouping(t *testing.T) {
	store := testkit.MustSampleStore()

	rows := ComputeTrendSlice(store, []string{"Texas", "Alabama"}, health.IndicatorObesity)
	if len(rows) != 6 {
		t.Fatalf("rows = %v, want 3 years per state", rows)
	}

	// Grouped by state in selection order, ascending years inside.
	wantStates := []string{"Texas", "Texas", "Texas", "Alabama", "Alabama", "Alabama"}
	wantYears := []int{2018, 2019, 2020, 2018, 2019, 2020}
	for i, row := range rows {
		if row.State != wantStates[i] || row.Year != wantYears[i] {
			t.Errorf("rows[%d] = %+v, want %s %d", i, row, wantStates[i], wantYears[i])
		}
	}
}

func TestTrendSliceSkipsUnknownStates(t *testing.T) {
	store := testkit.MustSampleStore()

	rows := ComputeTrendSlice(store, []string{"Wyoming", "Alabama"}, health.IndicatorObesity)
	for _, row := range rows {
		if row.State != "Alabama" {
			t.Errorf("unexpected state %q in trend slice", row.State)
		}
	}
	if len(rows) != 3 {
		t.Errorf("rows = %v", rows)
	}
}
