package contracts_test

import (
	"testing"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/contracts"
	"github.com/meenmo/actuslib/observers"
	"github.com/meenmo/actuslib/temporal"
)

func coveredLoan(id string) *actus.Attributes {
	return &actus.Attributes{
		ContractID:          id,
		ContractType:        actus.PAM,
		ContractRole:        actus.RoleRPA,
		StatusDate:          date(2024, time.January, 1),
		Currency:            "USD",
		InitialExchangeDate: date(2024, time.January, 1),
		MaturityDate:        date(2025, time.January, 1),
		NotionalPrincipal:   100000,
		DayCountConvention:  temporal.ThirtyE360,
	}
}

func TestCEGSettlesOnCreditEvent(t *testing.T) {
	pool := map[string]*actus.Attributes{"LOAN-1": coveredLoan("LOAN-1")}
	parent := &actus.Attributes{
		ContractID:        "CEG-1",
		ContractType:      actus.CEG,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		MaturityDate:      date(2025, time.January, 1),
		ContractStructure: map[string]string{"Covered": "LOAN-1"},
		Coverage:          0.8,
	}
	market := observers.NewCalloutObserver(observers.Constant(0), map[string][]observers.Callout{
		"CEG-1": {{Time: date(2024, time.July, 1), Kind: actus.EventCE}},
	})

	result, err := contracts.Simulate(parent, pool, market)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	std := singleEvent(t, result, actus.EventSTD)
	if !std.Time.Equal(date(2024, time.July, 1)) {
		t.Fatalf("STD at %v", std.Time)
	}
	// 80% of the 100 000 outstanding at the credit event.
	approx(t, "guarantee payout", std.Payoff, 80000)

	xd := singleEvent(t, result, actus.EventXD)
	if xd.StatePost.Performance != actus.PerformanceDF {
		t.Fatalf("performance after exercise: %s", xd.StatePost.Performance)
	}
}

func TestCEGDeferredSettlement(t *testing.T) {
	pool := map[string]*actus.Attributes{"LOAN-2": coveredLoan("LOAN-2")}
	parent := &actus.Attributes{
		ContractID:        "CEG-2",
		ContractType:      actus.CEG,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		MaturityDate:      date(2025, time.January, 1),
		ContractStructure: map[string]string{"Covered": "LOAN-2"},
		Coverage:          1.0,
		SettlementPeriod:  "1M",
	}
	market := observers.NewCalloutObserver(observers.Constant(0), map[string][]observers.Callout{
		"CEG-2": {{Time: date(2024, time.July, 1), Kind: actus.EventCE}},
	})

	result, err := contracts.Simulate(parent, pool, market)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	std := singleEvent(t, result, actus.EventSTD)
	if !std.Time.Equal(date(2024, time.August, 1)) {
		t.Fatalf("STD at %v, want exercise plus one month", std.Time)
	}
	// The payout is the exposure at the credit event, not at settlement.
	approx(t, "guarantee payout", std.Payoff, 100000)
	approx(t, "guarantee consumed", std.StatePost.Notional, 0)
}

func TestCEGWithoutCreditEventExpires(t *testing.T) {
	pool := map[string]*actus.Attributes{"LOAN-3": coveredLoan("LOAN-3")}
	parent := &actus.Attributes{
		ContractID:        "CEG-3",
		ContractType:      actus.CEG,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		MaturityDate:      date(2025, time.January, 1),
		ContractStructure: map[string]string{"Covered": "LOAN-3"},
		Coverage:          0.8,
	}

	result, err := contracts.Simulate(parent, pool, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if n := len(eventsOfKind(result, actus.EventSTD)); n != 0 {
		t.Fatalf("unexercised guarantee settled %d times", n)
	}
	md := singleEvent(t, result, actus.EventMD)
	approx(t, "expires worthless", md.Payoff, 0)
	approx(t, "exposure released", md.StatePost.Notional, 0)
}

func TestCECMarginCall(t *testing.T) {
	collateral := &actus.Attributes{
		ContractID:        "COLL-1",
		ContractType:      actus.CSH,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		NotionalPrincipal: 50000,
		AnalysisDates:     []time.Time{date(2024, time.June, 1)},
	}
	pool := map[string]*actus.Attributes{
		"LOAN-4": coveredLoan("LOAN-4"),
		"COLL-1": collateral,
	}
	parent := &actus.Attributes{
		ContractID:   "CEC-1",
		ContractType: actus.CEC,
		ContractRole: actus.RoleRPA,
		StatusDate:   date(2024, time.January, 1),
		Currency:     "USD",
		MaturityDate: date(2025, time.January, 1),
		ContractStructure: map[string]string{
			"Covered":    "LOAN-4",
			"Collateral": "COLL-1",
		},
		Coverage:      1.0,
		AnalysisDates: []time.Time{date(2024, time.June, 1)},
	}

	result, err := contracts.Simulate(parent, pool, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	std := singleEvent(t, result, actus.EventSTD)
	if !std.Time.Equal(date(2024, time.June, 1)) {
		t.Fatalf("margin call at %v", std.Time)
	}
	// 100 000 exposure against 50 000 cash collateral.
	approx(t, "margin call", std.Payoff, 50000)
	approx(t, "call amount recorded", std.StatePost.ExerciseAmount, 50000)
}

func TestCECCoveredPosition(t *testing.T) {
	collateral := &actus.Attributes{
		ContractID:        "COLL-2",
		ContractType:      actus.CSH,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		NotionalPrincipal: 50000,
		AnalysisDates:     []time.Time{date(2024, time.June, 1)},
	}
	pool := map[string]*actus.Attributes{
		"LOAN-5": coveredLoan("LOAN-5"),
		"COLL-2": collateral,
	}
	parent := &actus.Attributes{
		ContractID:   "CEC-2",
		ContractType: actus.CEC,
		ContractRole: actus.RoleRPA,
		StatusDate:   date(2024, time.January, 1),
		Currency:     "USD",
		MaturityDate: date(2025, time.January, 1),
		ContractStructure: map[string]string{
			"Covered":    "LOAN-5",
			"Collateral": "COLL-2",
		},
		Coverage:      0.4,
		AnalysisDates: []time.Time{date(2024, time.June, 1)},
	}

	result, err := contracts.Simulate(parent, pool, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if n := len(eventsOfKind(result, actus.EventSTD)); n != 0 {
		t.Fatalf("fully covered position raised %d margin calls", n)
	}
	ad := singleEvent(t, result, actus.EventAD)
	approx(t, "monitoring only", ad.Payoff, 0)
}
