package portfolio_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/portfolio"
	"github.com/meenmo/actuslib/temporal"
)

func loan(id string, notional float64) *actus.Attributes {
	return &actus.Attributes{
		ContractID:          id,
		ContractType:        actus.PAM,
		ContractRole:        actus.RoleRPA,
		StatusDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:            "USD",
		InitialExchangeDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		NotionalPrincipal:   notional,
		NominalRate:         0.05,
		InterestCycle:       "6M",
		DayCountConvention:  temporal.ThirtyE360,
	}
}

func quietRunner(opts ...portfolio.Option) *portfolio.Runner {
	opts = append(opts, portfolio.WithLogger(zerolog.Nop()))
	return portfolio.NewRunner(nil, opts...)
}

func TestRunPortfolio(t *testing.T) {
	runner := quietRunner(portfolio.WithWorkers(2))
	run, err := runner.Run(context.Background(), []*actus.Attributes{
		loan("P1", 100000),
		loan("P2", 50000),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.RunID == "" {
		t.Error("run id not assigned")
	}
	if len(run.Contracts) != 2 {
		t.Fatalf("got %d results", len(run.Contracts))
	}
	// Portfolio order survives the worker fan-out.
	if run.Contracts[0].ContractID != "P1" || run.Contracts[1].ContractID != "P2" {
		t.Fatalf("result order: %s, %s", run.Contracts[0].ContractID, run.Contracts[1].ContractID)
	}
	if failed := run.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	if got := len(run.Contracts[0].Result.Events); got != 3 {
		t.Fatalf("P1 events: %d", got)
	}
}

func TestRunSequentialFallback(t *testing.T) {
	// Zero workers degrade to a single sequential worker.
	runner := quietRunner(portfolio.WithWorkers(0))
	run, err := runner.Run(context.Background(), []*actus.Attributes{
		loan("P1", 100000),
		loan("P2", 50000),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Contracts) != 2 {
		t.Fatalf("got %d results", len(run.Contracts))
	}
}

func TestRunCollectsFailures(t *testing.T) {
	bad := loan("BAD", 0) // a principal instrument needs a notional

	runner := quietRunner()
	run, err := runner.Run(context.Background(), []*actus.Attributes{
		loan("OK", 100000),
		bad,
	})
	if err != nil {
		t.Fatalf("a contract failure must not abort the run: %v", err)
	}
	failed := run.Failed()
	if len(failed) != 1 || failed[0].ContractID != "BAD" {
		t.Fatalf("failed: %+v", failed)
	}
	if run.Contracts[0].Err != nil {
		t.Fatalf("healthy contract reported %v", run.Contracts[0].Err)
	}
}

func TestRunSkipsChildContracts(t *testing.T) {
	leg1 := loan("LEG-1", 100000)
	leg2 := loan("LEG-2", 100000)
	leg2.ContractRole = actus.RoleRPL
	parent := &actus.Attributes{
		ContractID:   "SWAP-1",
		ContractType: actus.SWAPS,
		ContractRole: actus.RoleRPA,
		StatusDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:     "USD",
		ContractStructure: map[string]string{
			"FirstLeg":  "LEG-1",
			"SecondLeg": "LEG-2",
		},
		DeliverySettlement: actus.SettlementNet,
	}

	runner := quietRunner()
	run, err := runner.Run(context.Background(), []*actus.Attributes{leg1, leg2, parent})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Contracts) != 1 || run.Contracts[0].ContractID != "SWAP-1" {
		t.Fatalf("legs must simulate through the swap only: %+v", run.Contracts)
	}
}

func TestCashFlowsOrdered(t *testing.T) {
	runner := quietRunner()
	run, err := runner.Run(context.Background(), []*actus.Attributes{
		loan("P1", 100000),
		loan("P2", 50000),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	flows := run.CashFlows()
	if len(flows) != 6 {
		t.Fatalf("got %d flows", len(flows))
	}
	for i := 1; i < len(flows); i++ {
		if flows[i].Time.Before(flows[i-1].Time) {
			t.Fatalf("flows out of order at %d", i)
		}
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := quietRunner(portfolio.WithWorkers(1))
	_, err := runner.Run(ctx, []*actus.Attributes{loan("P1", 100000)})
	if err == nil {
		t.Fatal("cancelled context must surface")
	}
}
