package contracts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/contracts"
	"github.com/meenmo/actuslib/observers"
	"github.com/meenmo/actuslib/temporal"
)

func capflFixture() *actus.Attributes {
	cap := 0.06
	return &actus.Attributes{
		ContractID:              "CAP-1",
		ContractType:            actus.CAPFL,
		ContractRole:            actus.RoleRPA,
		StatusDate:              date(2024, time.January, 1),
		Currency:                "USD",
		InitialExchangeDate:     date(2024, time.January, 1),
		MaturityDate:            date(2025, time.January, 1),
		NotionalPrincipal:       1000000,
		NominalRate:             0.055,
		InterestCycle:           "6M",
		RateResetCycle:          "6M",
		MarketObjectOfRateReset: "LIBOR",
		RateCap:                 &cap,
		DayCountConvention:      temporal.ThirtyE360,
	}
}

func TestCAPFLPaysExcessOverCap(t *testing.T) {
	result := run(t, capflFixture(), observers.Dict{"LIBOR": 0.07})

	ip := singleEvent(t, result, actus.EventIP)
	// First half year runs at 5.5%, under the cap: nothing owed.
	approx(t, "under the cap", ip.Payoff, 0)

	rr := singleEvent(t, result, actus.EventRR)
	// The reference rate is stored raw; the cap applies to the payout.
	approx(t, "observed rate unclamped", rr.StatePost.NominalRate, 0.07)

	md := singleEvent(t, result, actus.EventMD)
	approx(t, "excess over the cap", md.Payoff, (0.07-0.06)*0.5*1000000)
}

func TestCAPFLFloor(t *testing.T) {
	floor := 0.04
	attrs := capflFixture()
	attrs.RateCap = nil
	attrs.RateFloor = &floor
	attrs.NominalRate = 0.02

	result := run(t, attrs, observers.Dict{"LIBOR": 0.05})
	ip := singleEvent(t, result, actus.EventIP)
	// First period runs 2 points under the floor.
	approx(t, "floor shortfall", ip.Payoff, (0.04-0.02)*0.5*1000000)
	md := singleEvent(t, result, actus.EventMD)
	// After the reset to 5% the floor is out of the money.
	approx(t, "above the floor", md.Payoff, 0)
}

func TestCAPFLGridFromUnderlier(t *testing.T) {
	cap := 0.06
	pool := map[string]*actus.Attributes{
		"FLOAT-1": {
			ContractID:              "FLOAT-1",
			ContractType:            actus.PAM,
			ContractRole:            actus.RoleRPA,
			StatusDate:              date(2024, time.January, 1),
			Currency:                "USD",
			InitialExchangeDate:     date(2024, time.January, 1),
			MaturityDate:            date(2025, time.January, 1),
			NotionalPrincipal:       1000000,
			NominalRate:             0.055,
			InterestCycle:           "6M",
			RateResetCycle:          "6M",
			MarketObjectOfRateReset: "LIBOR",
			DayCountConvention:      temporal.ThirtyE360,
		},
	}
	parent := &actus.Attributes{
		ContractID:        "CAP-2",
		ContractType:      actus.CAPFL,
		ContractRole:      actus.RoleRPA,
		StatusDate:        date(2024, time.January, 1),
		Currency:          "USD",
		ContractStructure: map[string]string{"Underlier": "FLOAT-1"},
		RateCap:           &cap,
	}

	result, err := contracts.Simulate(parent, pool, observers.Dict{"LIBOR": 0.07})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	// Notional, grids, starting rate and conventions all come from the
	// underlier: the excess accrues on its 30E/360 basis, not actual/360.
	ip := singleEvent(t, result, actus.EventIP)
	approx(t, "under the cap", ip.Payoff, 0)
	md := singleEvent(t, result, actus.EventMD)
	approx(t, "excess over the cap", md.Payoff, (0.07-0.06)*0.5*1000000)
}

func TestCAPFLRequiresBound(t *testing.T) {
	attrs := capflFixture()
	attrs.RateCap = nil
	_, err := contracts.New(attrs, nil, nil)
	if !errors.Is(err, actus.ErrInvalidAttributes) {
		t.Fatalf("want ErrInvalidAttributes, got %v", err)
	}
}
