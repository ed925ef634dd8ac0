package repository

import (
	"testing"

	"lsbacktest/internal/db/models/postgres/public/model"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_withDeltas(t *testing.T) {
	rows := []model.AumLeverage{
		{Date: util.NewDate(2024, 1, 5), StrategyName: "MinVol", Aum: 100_000_000, TargetLeverage: 2},
		{Date: util.NewDate(2024, 1, 12), StrategyName: "MinVol", Aum: 100_100_000, TargetLeverage: 2.5},
		{Date: util.NewDate(2024, 1, 19), StrategyName: "MinVol", Aum: 99_000_000, TargetLeverage: 2.5},
	}

	got := withDeltas(rows)
	require.Equal(t, "", cmp.Diff([]domain.AumLeverageRecord{
		{Date: util.NewDate(2024, 1, 5), Strategy: "MinVol", Aum: 100_000_000, TargetLeverage: 2},
		{Date: util.NewDate(2024, 1, 12), Strategy: "MinVol", Aum: 100_100_000, TargetLeverage: 2.5, InOutFlows: 100_000, LeverageChange: 0.5},
		{Date: util.NewDate(2024, 1, 19), Strategy: "MinVol", Aum: 99_000_000, TargetLeverage: 2.5, InOutFlows: -1_100_000},
	}, got))
}
