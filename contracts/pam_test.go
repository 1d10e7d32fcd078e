package contracts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/contracts"
	"github.com/meenmo/actuslib/observers"
)

func TestPAMSemiAnnualBullet(t *testing.T) {
	result := run(t, pamFixture(), nil)

	if len(result.Events) != 3 {
		t.Fatalf("want IED, IP, MD; got %d events: %+v", len(result.Events), result.Events)
	}
	ied, ip, md := result.Events[0], result.Events[1], result.Events[2]

	if ied.Kind != actus.EventIED || !ied.Time.Equal(date(2024, time.January, 15)) {
		t.Fatalf("first event: %+v", ied)
	}
	approx(t, "IED payoff", ied.Payoff, -100000)

	if ip.Kind != actus.EventIP || !ip.Time.Equal(date(2024, time.July, 15)) {
		t.Fatalf("second event: %+v", ip)
	}
	approx(t, "IP payoff", ip.Payoff, 2500)

	if md.Kind != actus.EventMD || !md.Time.Equal(date(2025, time.January, 15)) {
		t.Fatalf("third event: %+v", md)
	}
	approx(t, "MD payoff", md.Payoff, 102500)

	approx(t, "lifecycle sum", result.TotalPayoff(), 5000)
}

func TestPAMStateChaining(t *testing.T) {
	result := run(t, pamFixture(), nil)
	for i := 1; i < len(result.Events); i++ {
		prev, cur := result.Events[i-1], result.Events[i]
		if cur.StatePre != prev.StatePost {
			t.Errorf("event %d: state_pre does not chain from previous state_post", i)
		}
	}
}

func TestPAMAccruedInterestClearedOnPayment(t *testing.T) {
	result := run(t, pamFixture(), nil)
	for _, e := range result.Events {
		if e.Kind == actus.EventIP || e.Kind == actus.EventMD {
			approx(t, "Ipac after "+string(e.Kind), e.StatePost.AccruedInterest, 0)
		}
	}
}

func TestPAMRateReset(t *testing.T) {
	attrs := pamFixture()
	attrs.RateResetCycle = "6M"
	attrs.MarketObjectOfRateReset = "RATE"
	market := observers.Dict{"RATE": 0.08}

	result := run(t, attrs, market)

	// IP and RR coincide on 2024-07-15; interest settles before the reset.
	ip := singleEvent(t, result, actus.EventIP)
	approx(t, "IP at old rate", ip.Payoff, 2500)

	rr := singleEvent(t, result, actus.EventRR)
	approx(t, "rate after reset", rr.StatePost.NominalRate, 0.08)

	md := singleEvent(t, result, actus.EventMD)
	approx(t, "MD at new rate", md.Payoff, 104000)
}

func TestPAMScheduledFirstFixing(t *testing.T) {
	next := 0.06
	attrs := pamFixture()
	attrs.RateResetCycle = "6M"
	attrs.RateResetNext = &next
	attrs.MarketObjectOfRateReset = "RATE"

	result := run(t, attrs, observers.Dict{"RATE": 0.09})

	rrf := singleEvent(t, result, actus.EventRRF)
	approx(t, "fixed rate", rrf.StatePost.NominalRate, 0.06)
	md := singleEvent(t, result, actus.EventMD)
	approx(t, "MD payoff", md.Payoff, 103000)
}

func TestPAMRateClamping(t *testing.T) {
	cap := 0.07
	attrs := pamFixture()
	attrs.RateResetCycle = "6M"
	attrs.MarketObjectOfRateReset = "RATE"
	attrs.RateCap = &cap

	result := run(t, attrs, observers.Dict{"RATE": 0.12})
	rr := singleEvent(t, result, actus.EventRR)
	approx(t, "capped rate", rr.StatePost.NominalRate, 0.07)
}

func TestPAMInterestCapitalization(t *testing.T) {
	attrs := pamFixture()
	attrs.CapitalizationEndDate = date(2024, time.July, 15)

	result := run(t, attrs, nil)

	ipci := singleEvent(t, result, actus.EventIPCI)
	approx(t, "IPCI payoff", ipci.Payoff, 0)
	approx(t, "notional after capitalization", ipci.StatePost.Notional, 102500)

	md := singleEvent(t, result, actus.EventMD)
	approx(t, "MD payoff", md.Payoff, 102500+102500*0.05*0.5)
}

func TestPAMPreExistingContract(t *testing.T) {
	// Status date after the initial exchange: the IED event is skipped but
	// the state carries the notional and the interest accrued so far.
	attrs := pamFixture()
	attrs.StatusDate = date(2024, time.April, 15)

	result := run(t, attrs, nil)
	if len(eventsOfKind(result, actus.EventIED)) != 0 {
		t.Fatal("IED must not be emitted for a pre-existing contract")
	}
	ip := singleEvent(t, result, actus.EventIP)
	// Full-period interest, even though only part accrued after status date.
	approx(t, "IP payoff", ip.Payoff, 2500)
}

func TestPAMPurchase(t *testing.T) {
	attrs := pamFixture()
	attrs.PurchaseDate = date(2024, time.April, 15)
	attrs.PriceAtPurchase = 99000

	result := run(t, attrs, nil)
	if len(eventsOfKind(result, actus.EventIED)) != 0 {
		t.Fatal("purchase removes the initial exchange")
	}
	prd := singleEvent(t, result, actus.EventPRD)
	// Dirty price: quoted price plus interest accrued to the purchase date.
	approx(t, "PRD payoff", prd.Payoff, -(99000 + 100000*0.05*0.25))
}

func TestPAMTermination(t *testing.T) {
	attrs := pamFixture()
	attrs.TerminationDate = date(2024, time.October, 15)
	attrs.PriceAtTermination = 100500

	result := run(t, attrs, nil)
	last := result.Events[len(result.Events)-1]
	if last.Kind != actus.EventTD {
		t.Fatalf("last event: %+v", last)
	}
	approx(t, "TD payoff", last.Payoff, 100500+100000*0.05*0.25)
	if len(eventsOfKind(result, actus.EventMD)) != 0 {
		t.Fatal("termination truncates maturity")
	}
}

func TestPAMNotionalFee(t *testing.T) {
	attrs := pamFixture()
	attrs.FeeRate = 0.01
	attrs.FeeBasis = actus.FeeNotional
	attrs.FeeCycle = "6M"
	// Anchored off the interest grid so the fee dates stand alone.
	attrs.FeeAnchor = date(2024, time.April, 15)

	result := run(t, attrs, nil)
	fp := eventsOfKind(result, actus.EventFP)
	if len(fp) != 2 {
		t.Fatalf("fee events: %d", len(fp))
	}
	// One quarter of accrual since the initial exchange.
	approx(t, "first FP", fp[0].Payoff, 100000*0.01*0.25)
	approx(t, "Feac cleared", fp[0].StatePost.AccruedFees, 0)
	// The interest payment in between cleared the fee accrual too, so the
	// second date again covers a single quarter.
	approx(t, "second FP", fp[1].Payoff, 100000*0.01*0.25)
}

func TestPAMFeeRidesCoincidentInterest(t *testing.T) {
	attrs := pamFixture()
	attrs.FeeRate = 0.01
	attrs.FeeBasis = actus.FeeNotional
	attrs.FeeCycle = "6M"

	result := run(t, attrs, nil)
	// Fee dates coincide with the interest grid; interest settles first and
	// carries the accrued fee, leaving the fee event itself empty.
	ip := singleEvent(t, result, actus.EventIP)
	approx(t, "IP with fee", ip.Payoff, 2500+100000*0.01*0.5)
	fp := eventsOfKind(result, actus.EventFP)
	if len(fp) == 0 {
		t.Fatal("no fee events")
	}
	approx(t, "coincident FP", fp[0].Payoff, 0)
}

func TestPAMPreExistingAccruedFee(t *testing.T) {
	attrs := pamFixture()
	attrs.StatusDate = date(2024, time.April, 15)
	attrs.FeeRate = 0.01
	attrs.FeeBasis = actus.FeeNotional
	attrs.FeeCycle = "6M"
	attrs.FeeAnchor = date(2024, time.April, 15)
	attrs.FeeAccrued = 300

	result := run(t, attrs, nil)
	fp := eventsOfKind(result, actus.EventFP)
	if len(fp) == 0 {
		t.Fatal("no fee events")
	}
	// The declared accrual is paid out on the fee date at the status date.
	approx(t, "declared fee accrual", fp[0].Payoff, 300)
}

func TestPAMSettlementCurrency(t *testing.T) {
	attrs := pamFixture()
	attrs.SettlementCurrency = "EUR"

	result := run(t, attrs, observers.Dict{"USD/EUR": 0.9})
	ip := singleEvent(t, result, actus.EventIP)
	approx(t, "IP converted", ip.Payoff, 2500*0.9)
	md := singleEvent(t, result, actus.EventMD)
	approx(t, "MD converted", md.Payoff, 102500*0.9)
}

func TestPAMMissingSettlementRate(t *testing.T) {
	attrs := pamFixture()
	attrs.SettlementCurrency = "EUR"

	c, err := contracts.New(attrs, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Simulate(); !errors.Is(err, actus.ErrObserverFailure) {
		t.Fatalf("want ErrObserverFailure for a missing FX rate, got %v", err)
	}
}

func TestPAMRejectsMissingNotional(t *testing.T) {
	attrs := pamFixture()
	attrs.NotionalPrincipal = 0
	_, err := contracts.New(attrs, nil, nil)
	if !errors.Is(err, actus.ErrInvalidAttributes) {
		t.Fatalf("want ErrInvalidAttributes, got %v", err)
	}
}

func TestPAMScaling(t *testing.T) {
	attrs := pamFixture()
	attrs.ScalingEffect = "N"
	attrs.ScalingCycle = "6M"
	attrs.ScalingIndexAtSD = 100
	attrs.MarketObjectOfScaling = "CPI"

	result := run(t, attrs, observers.Dict{"CPI": 110})
	sc := singleEvent(t, result, actus.EventSC)
	approx(t, "notional scaling", sc.StatePost.NotionalScaling, 1.1)
	md := singleEvent(t, result, actus.EventMD)
	// Principal scaled, interest untouched.
	approx(t, "MD payoff", md.Payoff, 110000+2500)
}
