package temporal

import (
	"time"

	"github.com/meenmo/actuslib/calendar"
)

// BusinessDayConvention controls how schedule dates landing on non-business
// days are moved. The SC family shifts both the event time and the
// calculation time; the CS family shifts only the event time, leaving the
// calculation time on the unadjusted schedule date so accruals keep the
// original period lengths.
type BusinessDayConvention string

const (
	BDCNone BusinessDayConvention = "NULL"
	SCF     BusinessDayConvention = "SCF"  // shift, following
	SCMF    BusinessDayConvention = "SCMF" // shift, modified following
	SCP     BusinessDayConvention = "SCP"  // shift, preceding
	SCMP    BusinessDayConvention = "SCMP" // shift, modified preceding
	CSF     BusinessDayConvention = "CSF"  // calculate-shift, following
	CSMF    BusinessDayConvention = "CSMF" // calculate-shift, modified following
	CSP     BusinessDayConvention = "CSP"  // calculate-shift, preceding
	CSMP    BusinessDayConvention = "CSMP" // calculate-shift, modified preceding
)

// Known reports whether the convention is one of the supported tokens.
func (b BusinessDayConvention) Known() bool {
	switch b {
	case BDCNone, SCF, SCMF, SCP, SCMP, CSF, CSMF, CSP, CSMP:
		return true
	}
	return false
}

func following(cal calendar.ID, t time.Time) time.Time {
	for !calendar.IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func preceding(cal calendar.ID, t time.Time) time.Time {
	for !calendar.IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// modifiedFollowing shifts forward, but when the shift leaves the month it
// restarts the search backward from the original date. Restarting from the
// shifted position instead can land on another non-business day.
func modifiedFollowing(cal calendar.ID, t time.Time) time.Time {
	shifted := following(cal, t)
	if shifted.Month() != t.Month() || shifted.Year() != t.Year() {
		return preceding(cal, t)
	}
	return shifted
}

func modifiedPreceding(cal calendar.ID, t time.Time) time.Time {
	shifted := preceding(cal, t)
	if shifted.Month() != t.Month() || shifted.Year() != t.Year() {
		return following(cal, t)
	}
	return shifted
}

// Adjust applies the business-day convention and returns the event time and
// the calculation time. Under calculate-shift conventions the calculation
// time stays on the unadjusted date.
func Adjust(t time.Time, bdc BusinessDayConvention, cal calendar.ID) (eventTime, calcTime time.Time) {
	var shifted time.Time
	switch bdc {
	case SCF, CSF:
		shifted = following(cal, t)
	case SCMF, CSMF:
		shifted = modifiedFollowing(cal, t)
	case SCP, CSP:
		shifted = preceding(cal, t)
	case SCMP, CSMP:
		shifted = modifiedPreceding(cal, t)
	default:
		return t, t
	}
	switch bdc {
	case CSF, CSMF, CSP, CSMP:
		return shifted, t
	default:
		return shifted, shifted
	}
}
