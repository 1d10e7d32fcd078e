package contracts

import (
	"fmt"
	"time"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/temporal"
)

// event builds a schedule entry with the business-day convention applied.
// Calculate-shift conventions keep the unadjusted date as the calculation
// time, so accrual periods stay on the original grid.
func (b *base) event(kind actus.EventKind, t time.Time) actus.Event {
	eventTime, calcTime := temporal.Adjust(t, b.terms.BusinessDayConvention, b.cal())
	return actus.Event{
		Time:            eventTime,
		CalculationTime: calcTime,
		Kind:            kind,
		Currency:        b.terms.Currency,
	}
}

// unadjusted builds a schedule entry without business-day adjustment, for
// contractual anchor dates (IED, MD, PRD, TD) that settle as written.
func (b *base) unadjusted(kind actus.EventKind, t time.Time) actus.Event {
	return actus.Event{
		Time:            t,
		CalculationTime: t,
		Kind:            kind,
		Currency:        b.terms.Currency,
	}
}

// cycled expands a cycle between anchor and end (inclusive) into adjusted
// schedule entries, one per grid date.
func (b *base) cycled(kind actus.EventKind, anchor time.Time, cycleStr string, end time.Time) ([]actus.Event, error) {
	cycle, err := temporal.ParseCycle(cycleStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", actus.ErrInvalidAttributes, err)
	}
	dates, err := temporal.Expand(anchor, end, cycle, b.terms.EndOfMonthConvention)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %v", actus.ErrInvalidSchedule, kind, err)
	}
	out := make([]actus.Event, 0, len(dates))
	for _, d := range dates {
		out = append(out, b.event(kind, d))
	}
	return out, nil
}

// cycledOpen is cycled without an entry on the terminal date itself, for
// families whose final occurrence is subsumed by the maturity event
// (interest, rate resets, fees, scaling, principal redemption).
func (b *base) cycledOpen(kind actus.EventKind, anchor time.Time, cycleStr string, end time.Time) ([]actus.Event, error) {
	events, err := b.cycled(kind, anchor, cycleStr, end)
	if err != nil {
		return nil, err
	}
	out := events[:0]
	for _, e := range events {
		if !e.CalculationTime.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// terminal resolves the contract end: termination date first, then
// maturity, then amortization end, then the simulation horizon.
func (b *base) terminal() time.Time {
	switch {
	case !b.terms.TerminationDate.IsZero():
		return b.terms.TerminationDate
	case !b.terms.MaturityDate.IsZero():
		return b.terms.MaturityDate
	case !b.terms.AmortizationDate.IsZero():
		return b.terms.AmortizationDate
	default:
		return b.terms.HorizonDate
	}
}

// addAnalysisEvents appends AD monitoring events.
func (b *base) addAnalysisEvents(events []actus.Event) []actus.Event {
	for _, t := range b.terms.AnalysisDates {
		events = append(events, b.unadjusted(actus.EventAD, t))
	}
	return events
}

// addCallouts merges behavioral callouts of the accepted kinds, carrying
// the observed amount as a payoff hint.
func (b *base) addCallouts(events []actus.Event, accept ...actus.EventKind) []actus.Event {
	for _, c := range b.callouts() {
		ok := false
		for _, kind := range accept {
			if c.Kind == kind {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		ev := b.unadjusted(c.Kind, c.Time)
		ev.Payoff = c.Payoff
		events = append(events, ev)
	}
	return events
}

// finalize applies the schedule-wide rules shared by all variants:
//   - a purchase removes the initial exchange and everything before the
//     purchase date, which becomes a PRD event;
//   - a termination truncates the schedule and appends a TD event;
//   - events before the status date are dropped (a pre-existing contract
//     initializes its state as if they had occurred);
//   - events are ordered by time and same-timestamp priority.
func (b *base) finalize(events []actus.Event) []actus.Event {
	if !b.terms.PurchaseDate.IsZero() {
		kept := events[:0]
		for _, e := range events {
			if e.Kind == actus.EventIED || e.Time.Before(b.terms.PurchaseDate) {
				continue
			}
			kept = append(kept, e)
		}
		events = append(kept, b.unadjusted(actus.EventPRD, b.terms.PurchaseDate))
	}
	if !b.terms.TerminationDate.IsZero() {
		kept := events[:0]
		for _, e := range events {
			if e.Time.After(b.terms.TerminationDate) {
				continue
			}
			kept = append(kept, e)
		}
		events = append(kept, b.unadjusted(actus.EventTD, b.terms.TerminationDate))
	}
	kept := events[:0]
	for _, e := range events {
		if e.Time.Before(b.terms.StatusDate) {
			continue
		}
		kept = append(kept, e)
	}
	events = kept
	actus.SortEvents(events)
	actus.Resequence(events)
	return events
}

// settleAfter advances a fixing date by a settlement period cycle, or
// returns it unchanged when no period is set.
func settleAfter(t time.Time, period string) (time.Time, error) {
	if period == "" {
		return t, nil
	}
	cycle, err := temporal.ParseCycle(period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", actus.ErrInvalidAttributes, err)
	}
	return temporal.AddPeriods(t, cycle, 1), nil
}

// after keeps only the events strictly after t.
func after(events []actus.Event, t time.Time) []actus.Event {
	out := events[:0]
	for _, e := range events {
		if e.Time.After(t) {
			out = append(out, e)
		}
	}
	return out
}
