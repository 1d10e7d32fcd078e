package actusjson

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/calendar"
	"github.com/meenmo/actuslib/temporal"
)

// The validation files carry attributes under the official camelCase term
// names. termReader pulls typed values out of the raw map, collecting the
// first conversion problem instead of failing on every access.

type termReader struct {
	raw map[string]any
	err error
}

func (r *termReader) fail(name string, v any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: term %s has unusable value %v", actus.ErrInvalidAttributes, name, v)
	}
}

func (r *termReader) str(name string) string {
	v, ok := r.raw[name]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(name, v)
		return ""
	}
	return s
}

func (r *termReader) num(name string) float64 {
	v, ok := r.raw[name]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			r.fail(name, v)
			return 0
		}
		return f
	default:
		r.fail(name, v)
		return 0
	}
}

func (r *termReader) numPtr(name string) *float64 {
	if _, ok := r.raw[name]; !ok {
		return nil
	}
	n := r.num(name)
	return &n
}

func (r *termReader) date(name string) time.Time {
	s := r.str(name)
	if s == "" {
		return time.Time{}
	}
	t, err := ParseTime(s)
	if err != nil {
		r.fail(name, s)
		return time.Time{}
	}
	return t
}

func (r *termReader) boolean(name string) bool {
	v, ok := r.raw[name]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "EOM" || b == "true" || b == "1"
	default:
		r.fail(name, v)
		return false
	}
}

// ToAttributes maps a camelCase term record onto engine attributes.
func (tc *TestCase) ToAttributes() (*actus.Attributes, error) {
	r := &termReader{raw: tc.Terms}
	a := &actus.Attributes{
		ContractID:   r.str("contractID"),
		ContractType: actus.ContractType(r.str("contractType")),
		ContractRole: actus.ContractRole(r.str("contractRole")),
		Counterparty: r.str("counterpartyID"),
		StatusDate:   r.date("statusDate"),
		Currency:     r.str("currency"),
		Currency2:    r.str("currency2"),

		SettlementCurrency: r.str("settlementCurrency"),

		InitialExchangeDate:   r.date("initialExchangeDate"),
		MaturityDate:          r.date("maturityDate"),
		AmortizationDate:      r.date("amortizationDate"),
		PurchaseDate:          r.date("purchaseDate"),
		TerminationDate:       r.date("terminationDate"),
		HorizonDate:           r.date("horizonDate"),
		CapitalizationEndDate: r.date("capitalizationEndDate"),

		DayCountConvention:    temporal.DayCountConvention(r.str("dayCountConvention")),
		BusinessDayConvention: temporal.BusinessDayConvention(r.str("businessDayConvention")),
		EndOfMonthConvention:  r.boolean("endOfMonthConvention"),
		Calendar:              calendar.ID(r.str("calendar")),

		NominalRate:     r.num("nominalInterestRate"),
		NominalRate2:    r.num("nominalInterestRate2"),
		AccruedInterest: r.numPtr("accruedInterest"),
		InterestAnchor:  r.date("cycleAnchorDateOfInterestPayment"),
		InterestCycle:   r.str("cycleOfInterestPayment"),

		NotionalPrincipal:    r.num("notionalPrincipal"),
		NotionalPrincipal2:   r.num("notionalPrincipal2"),
		PremiumDiscountAtIED: r.num("premiumDiscountAtIED"),
		PrincipalAnchor:      r.date("cycleAnchorDateOfPrincipalRedemption"),
		PrincipalCycle:       r.str("cycleOfPrincipalRedemption"),
		NextPrincipalPayment: r.numPtr("nextPrincipalRedemptionPayment"),

		CalcBase:       actus.InterestCalcBase(r.str("interestCalculationBase")),
		CalcBaseAmount: r.num("interestCalculationBaseAmount"),
		CalcBaseAnchor: r.date("cycleAnchorDateOfInterestCalculationBase"),
		CalcBaseCycle:  r.str("cycleOfInterestCalculationBase"),

		RateResetAnchor:         r.date("cycleAnchorDateOfRateReset"),
		RateResetCycle:          r.str("cycleOfRateReset"),
		RateSpread:              r.num("rateSpread"),
		RateMultiplier:          r.numPtr("rateMultiplier"),
		RateCap:                 r.numPtr("lifeCap"),
		RateFloor:               r.numPtr("lifeFloor"),
		RateResetNext:           r.numPtr("nextResetRate"),
		MarketObjectOfRateReset: r.str("marketObjectCodeOfRateReset"),

		FeeRate:    r.num("feeRate"),
		FeeBasis:   actus.FeeBasis(r.str("feeBasis")),
		FeeAnchor:  r.date("cycleAnchorDateOfFee"),
		FeeCycle:   r.str("cycleOfFee"),
		FeeAccrued: r.num("feeAccrued"),

		ScalingEffect:         r.str("scalingEffect"),
		ScalingIndexAtSD:      r.num("scalingIndexAtStatusDate"),
		ScalingAnchor:         r.date("cycleAnchorDateOfScalingIndex"),
		ScalingCycle:          r.str("cycleOfScalingIndex"),
		MarketObjectOfScaling: r.str("marketObjectCodeOfScalingIndex"),

		PenaltyType: actus.PenaltyType(r.str("penaltyType")),
		PenaltyRate: r.num("penaltyRate"),

		PriceAtPurchase:    r.num("priceAtPurchaseDate"),
		PriceAtTermination: r.num("priceAtTerminationDate"),

		DividendAnchor:          r.date("cycleAnchorDateOfDividend"),
		DividendCycle:           r.str("cycleOfDividend"),
		MarketObjectOfDividends: r.str("marketObjectCodeOfDividends"),

		OptionType:              actus.OptionType(r.str("optionType")),
		ExerciseType:            actus.ExerciseType(r.str("optionExerciseType")),
		OptionStrike1:           r.num("optionStrike1"),
		OptionStrike2:           r.num("optionStrike2"),
		ExerciseEndDate:         r.date("optionExerciseEndDate"),
		FuturesPrice:            r.num("futuresPrice"),
		DeliverySettlement:      actus.DeliverySettlement(r.str("deliverySettlement")),
		SettlementPeriod:        r.str("settlementPeriod"),
		MarketObjectOfUnderlier: r.str("marketObjectCode"),
		XDayNotice:              r.str("xDayNotice"),

		Coverage:        r.num("coverageOfCreditEnhancement"),
		GuaranteeExtent: actus.GuaranteeExtent(r.str("guaranteedExposure")),
	}

	if raw, ok := tc.Terms["contractStructure"]; ok && raw != nil {
		structure, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: contractStructure must be an object", actus.ErrInvalidAttributes)
		}
		a.ContractStructure = make(map[string]string, len(structure))
		for key, v := range structure {
			id, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: contractStructure.%s must be a contract id", actus.ErrInvalidAttributes, key)
			}
			a.ContractStructure[key] = id
		}
	}
	if raw, ok := tc.Terms["analysisDates"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: analysisDates must be a list", actus.ErrInvalidAttributes)
		}
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: analysisDates entries must be timestamps", actus.ErrInvalidAttributes)
			}
			t, err := ParseTime(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", actus.ErrInvalidAttributes, err)
			}
			a.AnalysisDates = append(a.AnalysisDates, t)
		}
		sort.Slice(a.AnalysisDates, func(i, j int) bool { return a.AnalysisDates[i].Before(a.AnalysisDates[j]) })
	}

	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}

// FromAttributes renders attributes back into a camelCase term record,
// emitting only the attributes that are set so that a load/store cycle is
// idempotent on the populated subset.
func FromAttributes(a *actus.Attributes) map[string]any {
	out := map[string]any{}
	putStr := func(name, v string) {
		if v != "" {
			out[name] = v
		}
	}
	putNum := func(name string, v float64) {
		if v != 0 {
			out[name] = v
		}
	}
	putPtr := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	putDate := func(name string, v time.Time) {
		if !v.IsZero() {
			out[name] = FormatTime(v)
		}
	}

	putStr("contractID", a.ContractID)
	putStr("contractType", string(a.ContractType))
	putStr("contractRole", string(a.ContractRole))
	putStr("counterpartyID", a.Counterparty)
	putDate("statusDate", a.StatusDate)
	putStr("currency", a.Currency)
	putStr("currency2", a.Currency2)
	putStr("settlementCurrency", a.SettlementCurrency)

	putDate("initialExchangeDate", a.InitialExchangeDate)
	putDate("maturityDate", a.MaturityDate)
	putDate("amortizationDate", a.AmortizationDate)
	putDate("purchaseDate", a.PurchaseDate)
	putDate("terminationDate", a.TerminationDate)
	putDate("horizonDate", a.HorizonDate)
	putDate("capitalizationEndDate", a.CapitalizationEndDate)

	putStr("dayCountConvention", string(a.DayCountConvention))
	putStr("businessDayConvention", string(a.BusinessDayConvention))
	if a.EndOfMonthConvention {
		out["endOfMonthConvention"] = true
	}
	putStr("calendar", string(a.Calendar))

	putNum("nominalInterestRate", a.NominalRate)
	putNum("nominalInterestRate2", a.NominalRate2)
	putPtr("accruedInterest", a.AccruedInterest)
	putDate("cycleAnchorDateOfInterestPayment", a.InterestAnchor)
	putStr("cycleOfInterestPayment", a.InterestCycle)

	putNum("notionalPrincipal", a.NotionalPrincipal)
	putNum("notionalPrincipal2", a.NotionalPrincipal2)
	putNum("premiumDiscountAtIED", a.PremiumDiscountAtIED)
	putDate("cycleAnchorDateOfPrincipalRedemption", a.PrincipalAnchor)
	putStr("cycleOfPrincipalRedemption", a.PrincipalCycle)
	putPtr("nextPrincipalRedemptionPayment", a.NextPrincipalPayment)

	putStr("interestCalculationBase", string(a.CalcBase))
	putNum("interestCalculationBaseAmount", a.CalcBaseAmount)
	putDate("cycleAnchorDateOfInterestCalculationBase", a.CalcBaseAnchor)
	putStr("cycleOfInterestCalculationBase", a.CalcBaseCycle)

	putDate("cycleAnchorDateOfRateReset", a.RateResetAnchor)
	putStr("cycleOfRateReset", a.RateResetCycle)
	putNum("rateSpread", a.RateSpread)
	putPtr("rateMultiplier", a.RateMultiplier)
	putPtr("lifeCap", a.RateCap)
	putPtr("lifeFloor", a.RateFloor)
	putPtr("nextResetRate", a.RateResetNext)
	putStr("marketObjectCodeOfRateReset", a.MarketObjectOfRateReset)

	putNum("feeRate", a.FeeRate)
	putStr("feeBasis", string(a.FeeBasis))
	putDate("cycleAnchorDateOfFee", a.FeeAnchor)
	putStr("cycleOfFee", a.FeeCycle)
	putNum("feeAccrued", a.FeeAccrued)

	putStr("scalingEffect", a.ScalingEffect)
	putNum("scalingIndexAtStatusDate", a.ScalingIndexAtSD)
	putDate("cycleAnchorDateOfScalingIndex", a.ScalingAnchor)
	putStr("cycleOfScalingIndex", a.ScalingCycle)
	putStr("marketObjectCodeOfScalingIndex", a.MarketObjectOfScaling)

	putStr("penaltyType", string(a.PenaltyType))
	putNum("penaltyRate", a.PenaltyRate)

	putNum("priceAtPurchaseDate", a.PriceAtPurchase)
	putNum("priceAtTerminationDate", a.PriceAtTermination)

	putDate("cycleAnchorDateOfDividend", a.DividendAnchor)
	putStr("cycleOfDividend", a.DividendCycle)
	putStr("marketObjectCodeOfDividends", a.MarketObjectOfDividends)

	putStr("optionType", string(a.OptionType))
	putStr("optionExerciseType", string(a.ExerciseType))
	putNum("optionStrike1", a.OptionStrike1)
	putNum("optionStrike2", a.OptionStrike2)
	putDate("optionExerciseEndDate", a.ExerciseEndDate)
	putNum("futuresPrice", a.FuturesPrice)
	putStr("deliverySettlement", string(a.DeliverySettlement))
	putStr("settlementPeriod", a.SettlementPeriod)
	putStr("marketObjectCode", a.MarketObjectOfUnderlier)
	putStr("xDayNotice", a.XDayNotice)

	putNum("coverageOfCreditEnhancement", a.Coverage)
	putStr("guaranteedExposure", string(a.GuaranteeExtent))

	if len(a.ContractStructure) > 0 {
		structure := make(map[string]any, len(a.ContractStructure))
		for key, id := range a.ContractStructure {
			structure[key] = id
		}
		out["contractStructure"] = structure
	}
	if len(a.AnalysisDates) > 0 {
		dates := make([]any, 0, len(a.AnalysisDates))
		for _, t := range a.AnalysisDates {
			dates = append(dates, FormatTime(t))
		}
		out["analysisDates"] = dates
	}
	return out
}
