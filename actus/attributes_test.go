package actus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/actuslib/actus"
)

func validAttrs() *actus.Attributes {
	return &actus.Attributes{
		ContractID:   "T-1",
		ContractType: actus.PAM,
		ContractRole: actus.RoleRPA,
		StatusDate:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Currency:     "USD",
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []func(*actus.Attributes){
		func(a *actus.Attributes) { a.ContractID = "" },
		func(a *actus.Attributes) { a.ContractType = "" },
		func(a *actus.Attributes) { a.ContractRole = "" },
		func(a *actus.Attributes) { a.StatusDate = time.Time{} },
		func(a *actus.Attributes) { a.Currency = "" },
	}
	for i, mutate := range cases {
		a := validAttrs()
		mutate(a)
		if err := a.Validate(); !errors.Is(err, actus.ErrInvalidAttributes) {
			t.Errorf("case %d: want ErrInvalidAttributes, got %v", i, err)
		}
	}
	if err := validAttrs().Validate(); err != nil {
		t.Errorf("valid attributes rejected: %v", err)
	}
}

func TestValidateRejectsUnknownConventions(t *testing.T) {
	a := validAttrs()
	a.DayCountConvention = "ThirtyE360" // the token is 30E360
	if err := a.Validate(); !errors.Is(err, actus.ErrInvalidAttributes) {
		t.Errorf("want ErrInvalidAttributes for bad day count, got %v", err)
	}
	a = validAttrs()
	a.BusinessDayConvention = "FOLLOWING"
	if err := a.Validate(); !errors.Is(err, actus.ErrInvalidAttributes) {
		t.Errorf("want ErrInvalidAttributes for bad business day convention, got %v", err)
	}
}

func TestValidateRejectsBadCycles(t *testing.T) {
	a := validAttrs()
	a.InterestCycle = "P6M"
	if err := a.Validate(); !errors.Is(err, actus.ErrInvalidAttributes) {
		t.Errorf("want ErrInvalidAttributes for bad cycle, got %v", err)
	}
}

func TestClampRate(t *testing.T) {
	cap, floor := 0.08, 0.02
	a := &actus.Attributes{RateCap: &cap, RateFloor: &floor}
	if got := a.ClampRate(0.10); got != 0.08 {
		t.Errorf("cap: got %v", got)
	}
	if got := a.ClampRate(0.01); got != 0.02 {
		t.Errorf("floor: got %v", got)
	}
	if got := a.ClampRate(0.05); got != 0.05 {
		t.Errorf("inside band: got %v", got)
	}
}

func TestStateCalcBaseFallsBackToNotional(t *testing.T) {
	st := actus.NewState(time.Now(), time.Time{})
	st.Notional = 500
	if st.CalcBase() != 500 {
		t.Error("zero base should fall back to the notional")
	}
	st.InterestCalcBase = 200
	if st.CalcBase() != 200 {
		t.Error("fixed base should win")
	}
}
