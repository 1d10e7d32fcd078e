package actus

import (
	"sort"
	"time"
)

// Event is one materialized contract event. Before simulation the payoff is
// zero and the state snapshots are empty; the lifecycle engine fills them.
// CalculationTime differs from Time only under calculate-shift business-day
// conventions: accrual uses CalculationTime, settlement uses Time.
type Event struct {
	Time            time.Time
	CalculationTime time.Time
	Kind            EventKind
	Sequence        int
	Payoff          float64
	Currency        string
	StatePre        State
	StatePost       State
}

// eventPriority ranks events sharing a timestamp; lower runs first.
var eventPriority = map[EventKind]int{
	EventAD:   1,
	EventIED:  2,
	EventPR:   3,
	EventIP:   4,
	EventIPCI: 5,
	EventRR:   6,
	EventIPCB: 7,
	EventSC:   8,
	EventFP:   9,
	EventPRD:  10,
	EventTD:   11,
	EventMD:   12,
	EventSTD:  13,
	EventXD:   14,
	EventDV:   15,
}

// Priority returns the same-timestamp execution rank of an event kind.
// Kinds outside the table (RRF, PP, PY, PI, CE) run with their scheduling
// neighbors: RRF with RR, PP/PY/PI with PR, CE with XD.
func Priority(kind EventKind) int {
	if p, ok := eventPriority[kind]; ok {
		return p
	}
	switch kind {
	case EventRRF:
		return eventPriority[EventRR]
	case EventPP, EventPY, EventPI:
		return eventPriority[EventPR]
	case EventCE:
		return eventPriority[EventXD]
	default:
		return 99
	}
}

// SortEvents orders events by time, then priority rank, then sequence.
// The sort is stable so equal-rank events keep their insertion order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time) {
			return events[i].Time.Before(events[j].Time)
		}
		pi, pj := Priority(events[i].Kind), Priority(events[j].Kind)
		if pi != pj {
			return pi < pj
		}
		return events[i].Sequence < events[j].Sequence
	})
}

// Resequence rewrites sequence numbers to match the current order.
func Resequence(events []Event) {
	for i := range events {
		events[i].Sequence = i
	}
}

// SimulationResult is the materialized outcome of one contract lifecycle.
type SimulationResult struct {
	ContractID string
	Events     []Event
}

// TotalPayoff sums all event payoffs; useful for conservation checks.
func (r *SimulationResult) TotalPayoff() float64 {
	var sum float64
	for _, e := range r.Events {
		sum += e.Payoff
	}
	return sum
}
