package actus

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/calendar"
	"github.com/meenmo/actuslib/temporal"
)

// Attributes is the declarative description of a contract. A zero time or
// empty string means the attribute is absent; optional numerics whose zero
// value is meaningful (caps, floors, multipliers, scheduled fixings) are
// pointers. Attributes are not mutated after construction.
type Attributes struct {
	// Identification.
	ContractID         string
	ContractType       ContractType
	ContractRole       ContractRole
	Counterparty       string
	StatusDate         time.Time
	Currency           string
	Currency2          string // second leg of FXOUT
	SettlementCurrency string

	// Calendar anchors.
	InitialExchangeDate   time.Time
	MaturityDate          time.Time
	AmortizationDate      time.Time
	PurchaseDate          time.Time
	TerminationDate       time.Time
	HorizonDate           time.Time // simulation horizon for open-ended variants
	CapitalizationEndDate time.Time

	// Conventions.
	DayCountConvention    temporal.DayCountConvention
	BusinessDayConvention temporal.BusinessDayConvention
	EndOfMonthConvention  bool
	Calendar              calendar.ID

	// Interest.
	NominalRate     float64 // IPNR; fixed-leg rate for SWPPV
	NominalRate2    float64 // IPNR2; initial floating rate for SWPPV
	AccruedInterest *float64
	InterestAnchor  time.Time // IPANX
	InterestCycle   string    // IPCL

	// Principal.
	NotionalPrincipal      float64 // NT
	NotionalPrincipal2     float64 // NT2 for FXOUT
	PremiumDiscountAtIED   float64 // PDIED
	PrincipalAnchor        time.Time
	PrincipalCycle         string
	NextPrincipalPayment   *float64    // PRNXT
	PrincipalArrayDates    []time.Time // LAX redemption grid
	PrincipalArrayAmounts  []float64
	PrincipalArrayIncrease []bool // true entries grow the notional

	// Interest calculation base (LAM family).
	CalcBase       InterestCalcBase
	CalcBaseAmount float64
	CalcBaseAnchor time.Time
	CalcBaseCycle  string

	// Rate resets.
	RateResetAnchor         time.Time
	RateResetCycle          string
	RateSpread              float64  // RRSP
	RateMultiplier          *float64 // RRMLT
	RateCap                 *float64 // RRLC
	RateFloor               *float64 // RRLF
	RateResetNext           *float64 // RRNXT, scheduled first fixing
	MarketObjectOfRateReset string   // RRMO

	// Fees.
	FeeRate    float64
	FeeBasis   FeeBasis
	FeeAnchor  time.Time
	FeeCycle   string
	FeeAccrued float64

	// Scaling.
	ScalingEffect         string // flags: N scales notional, I scales interest
	ScalingIndexAtSD      float64
	ScalingAnchor         time.Time
	ScalingCycle          string
	MarketObjectOfScaling string

	// Penalties.
	PenaltyType PenaltyType
	PenaltyRate float64

	// Purchase / termination prices.
	PriceAtPurchase    float64 // PPRD
	PriceAtTermination float64 // PTD

	// Dividends (STK).
	DividendAnchor          time.Time
	DividendCycle           string
	MarketObjectOfDividends string

	// Derivative terms.
	OptionType              OptionType
	ExerciseType            ExerciseType
	OptionStrike1           float64
	OptionStrike2           float64
	ExerciseEndDate         time.Time // Bermudan exercise window end
	FuturesPrice            float64
	DeliverySettlement      DeliverySettlement
	SettlementPeriod        string // cycle from exercise to settlement
	MarketObjectOfUnderlier string
	XDayNotice              string // CLM notice period cycle

	// Credit enhancement.
	Coverage        float64
	GuaranteeExtent GuaranteeExtent

	// Composite structure, e.g. {"FirstLeg":"EUR-LEG","SecondLeg":"USD-LEG"}.
	ContractStructure map[string]string

	// Monitoring times.
	AnalysisDates []time.Time
}

// Validate checks the mandatory fields shared by all variants. Variant
// factories perform their own additional checks; everything surfaces as
// ErrInvalidAttributes before any event is emitted.
func (a *Attributes) Validate() error {
	if a.ContractID == "" {
		return fmt.Errorf("%w: contract_id is required", ErrInvalidAttributes)
	}
	if a.ContractType == "" {
		return fmt.Errorf("%w: contract_type is required", ErrInvalidAttributes)
	}
	if a.ContractRole == "" {
		return fmt.Errorf("%w: contract_role is required", ErrInvalidAttributes)
	}
	if a.StatusDate.IsZero() {
		return fmt.Errorf("%w: status_date is required", ErrInvalidAttributes)
	}
	if a.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidAttributes)
	}
	if a.DayCountConvention != "" && !a.DayCountConvention.Known() {
		return fmt.Errorf("%w: unknown day_count_convention %q", ErrInvalidAttributes, a.DayCountConvention)
	}
	if a.BusinessDayConvention != "" && !a.BusinessDayConvention.Known() {
		return fmt.Errorf("%w: unknown business_day_convention %q", ErrInvalidAttributes, a.BusinessDayConvention)
	}
	for _, cycle := range []string{
		a.InterestCycle, a.PrincipalCycle, a.RateResetCycle, a.FeeCycle,
		a.ScalingCycle, a.CalcBaseCycle, a.DividendCycle, a.SettlementPeriod,
		a.XDayNotice,
	} {
		if cycle == "" {
			continue
		}
		if _, err := temporal.ParseCycle(cycle); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
		}
	}
	return nil
}

// RoleSign is shorthand for the sign of this contract's role.
func (a *Attributes) RoleSign() float64 {
	return RoleSign(a.ContractRole)
}

// Multiplier returns the rate reset multiplier, defaulting to one.
func (a *Attributes) Multiplier() float64 {
	if a.RateMultiplier != nil {
		return *a.RateMultiplier
	}
	return 1
}

// ClampRate applies the rate reset floor and cap to a candidate rate.
func (a *Attributes) ClampRate(rate float64) float64 {
	if a.RateFloor != nil && rate < *a.RateFloor {
		rate = *a.RateFloor
	}
	if a.RateCap != nil && rate > *a.RateCap {
		rate = *a.RateCap
	}
	return rate
}
