package analysis

import (
	"testing"
	"time"

	"budget_forecast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// monthly builds a series starting in January 2020 with the first active
// months set to 100 and the remaining ones to 0.
func monthly(total, active int) models.TimeSeries {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.TimeSeries, total)
	for i := range s {
		v := 0.0
		if i < active {
			v = 100
		}
		s[i] = models.Point{Period: start.AddDate(0, i, 0), Value: v}
	}
	return s
}

func TestValidateDuration_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		series    models.TimeSeries
		requested *int
		want      int
		reason    models.DurationReason
	}{
		{name: "12 active months auto", series: monthly(12, 12), want: 4, reason: models.ReasonAuto},
		{name: "12 active months request 6 reduced", series: monthly(12, 12), requested: intPtr(6), want: 4, reason: models.ReasonUserReduced},
		{name: "2 active months clamp to floor", series: monthly(2, 2), want: 3, reason: models.ReasonAuto},
		{name: "single period", series: monthly(1, 1), want: 3, reason: models.ReasonAuto},
		{name: "no active months", series: monthly(10, 0), want: 3, reason: models.ReasonAuto},
		{name: "long history capped", series: monthly(120, 120), want: 24, reason: models.ReasonAuto},
		{name: "72 active months request 36", series: monthly(72, 72), requested: intPtr(36), want: 24, reason: models.ReasonUserReduced},
		{name: "request within safe", series: monthly(36, 36), requested: intPtr(10), want: 10, reason: models.ReasonUserApproved},
		{name: "request equal to safe", series: monthly(36, 36), requested: intPtr(12), want: 12, reason: models.ReasonUserApproved},
		{name: "request at floor", series: monthly(12, 12), requested: intPtr(3), want: 3, reason: models.ReasonUserApproved},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := ValidateDuration(tc.series, tc.requested)
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.ValidatedMonths)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.requested, d.RequestedMonths)
		})
	}
}

func TestValidateDuration_ActiveCountIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	s := monthly(30, 0)
	for i := 0; i < 15; i++ {
		s[i].Value = 10
	}
	s[20].Value = -50

	d, err := ValidateDuration(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, d.ActiveMonths)
	assert.Equal(t, 30, d.TotalMonths)
	assert.Equal(t, 5, d.SafeMonths)
	assert.InDelta(t, 50.0, d.Density, 1e-9)
	assert.False(t, d.Sparse)
}

func TestValidateDuration_SparseFlag(t *testing.T) {
	t.Parallel()

	d, err := ValidateDuration(monthly(20, 3), nil)
	require.NoError(t, err)
	assert.True(t, d.Sparse)
	assert.Equal(t, 3, d.ValidatedMonths)
}

func TestValidateDuration_Errors(t *testing.T) {
	t.Parallel()

	_, err := ValidateDuration(nil, nil)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = ValidateDuration(models.TimeSeries{}, intPtr(6))
	require.ErrorIs(t, err, ErrInsufficientData)

	for _, req := range []int{0, -1, -100, 1, 2} {
		_, err = ValidateDuration(monthly(24, 24), intPtr(req))
		require.ErrorIs(t, err, ErrInvalidArgument, "requested=%d", req)
	}
}

func TestValidateDuration_BoundsHoldForAllActiveCounts(t *testing.T) {
	t.Parallel()

	for active := 0; active <= 150; active++ {
		d, err := Decide(models.DurationRequest{ActiveMonthCount: active})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d.ValidatedMonths, MinMonths)
		assert.LessOrEqual(t, d.ValidatedMonths, MaxMonths)
		assert.Equal(t, models.ReasonAuto, d.Reason)
	}
}

func TestDecide_OverlargeRequestsReduceToSameValue(t *testing.T) {
	t.Parallel()

	for _, req := range []int{36, 10000} {
		d, err := Decide(models.DurationRequest{ActiveMonthCount: 12, RequestedMonths: intPtr(req)})
		require.NoError(t, err)
		assert.Equal(t, 4, d.ValidatedMonths)
		assert.Equal(t, models.ReasonUserReduced, d.Reason)
	}
}

func TestDecide_NegativeActiveCount(t *testing.T) {
	t.Parallel()

	_, err := Decide(models.DurationRequest{ActiveMonthCount: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSafeDuration(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 3, 1: 3, 8: 3, 9: 3, 12: 4, 24: 8, 71: 23, 72: 24, 500: 24}
	for active, want := range cases {
		assert.Equal(t, want, SafeDuration(active), "active=%d", active)
	}
}
