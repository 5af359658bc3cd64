package domain

import "github.com/shopspring/decimal"

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func brackets(rates []float64, thresholds ...int64) []Bracket {
	out := make([]Bracket, len(rates))
	for i, r := range rates {
		out[i] = Bracket{Rate: d(r), Threshold: decimal.NewFromInt(thresholds[i])}
	}
	return out
}

var rates2019 = []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}

// FederalPolicy2019 returns the 2019 federal income, payroll and corporate rates.
func FederalPolicy2019() Policy {
	return Policy{
		Name: "2019 federal",
		Brackets: BracketSchedule{
			{Status: Single, Brackets: brackets(rates2019, 0, 9700, 39475, 84200, 160725, 204100, 510300)},
			{Status: MarriedJoint, Brackets: brackets(rates2019, 0, 19400, 78950, 168400, 321450, 408200, 612350)},
			{Status: MarriedSeparate, Brackets: brackets(rates2019, 0, 9700, 39475, 84200, 160725, 204100, 306175)},
			{Status: HeadOfHousehold, Brackets: brackets(rates2019, 0, 13850, 52850, 84200, 160700, 204100, 510300)},
		},
		StandardDeduction: StandardDeduction{
			Single:          decimal.NewFromInt(12200),
			MarriedJoint:    decimal.NewFromInt(24400),
			MarriedSeparate: decimal.NewFromInt(12200),
			HeadOfHousehold: decimal.NewFromInt(18350),
		},
		Payroll: PayrollPolicy{
			OASDIRate: d(0.124),
			OASDICap:  decimal.NewFromInt(132900),
			HIRate:    d(0.029),
			AddHIRate: d(0.009),
			AddHIThresholds: map[FilingStatus]decimal.Decimal{
				Single:          decimal.NewFromInt(200000),
				MarriedJoint:    decimal.NewFromInt(250000),
				MarriedSeparate: decimal.NewFromInt(125000),
				HeadOfHousehold: decimal.NewFromInt(200000),
			},
		},
		CorporateRate: d(0.21),
	}
}

// DefaultAssumptions returns a ten-year run starting in 2020 on 2016 income and 2018 corporate data.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		StartYear:         2020,
		Years:             10,
		Inflation:         d(0.02),
		PopulationGrowth:  d(0.008),
		GDPGrowth:         d(0.02),
		IncomeBaseYear:    2016,
		CorporateBaseYear: 2018,
		ScheduleYear:      2019,
	}
}

// DefaultCoverage asks for half of a 30 trillion cost.
func DefaultCoverage() Coverage {
	return Coverage{
		TotalCost:       decimal.NewFromInt(30_000_000_000_000),
		DesiredCoverage: d(0.5),
	}
}
