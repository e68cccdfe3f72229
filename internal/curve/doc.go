// Package curve implements the bonding-curve pricing and graduation engine
// behind a pump.fun-style token launchpad.
//
// This package provides:
//   - Deterministic price functions for linear, exponential and logarithmic curves.
//   - Buy/sell execution with basis-point fee collection and creator/platform splits.
//   - A trade gatekeeper: per-wallet cooldowns, launch-protection buy caps and a
//     progressive price-impact schedule keyed by trade size.
//   - The one-way graduation transition that allocates the treasury into
//     external-pool liquidity once market cap crosses the threshold.
//
// Key Types and Functions:
//
//   - Engine struct: one instance per token; serializes all mutations internally.
//   - New(): validates Params and creates an Engine at a caller-supplied timestamp.
//   - Engine.Buy(), Engine.Sell(): execute trades; every rejection is a *TradeError
//     and leaves state untouched.
//   - Engine.GetQuote(): read-only preview using the exact math of the mutating path.
//   - Engine.State(): snapshot including market cap and graduation progress.
//   - GraduationEvent: the one-time liquidity-migration record.
//
// All amounts are integers in lamport-denominated price units; the engine
// performs no I/O and never reads a wall clock, so identical input sequences
// always produce identical state. Detailed behavior lives in:
//   - math.go: price functions and widened integer arithmetic.
//   - fees.go: fee application and the nested creator/platform split.
//   - gatekeeper.go: per-wallet protections and the impact tier schedule.
//   - engine.go: validate-then-commit trade execution.
//   - graduation.go: threshold crossing and pool-parameter computation.
//
// Usage example:
//
//	params := curve.DefaultParams()
//	engine, err := curve.New(params, time.Now().Unix(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	trade, err := engine.Buy(100_000, wallet.String(), time.Now().Unix())
//	if reason, ok := curve.IsRejection(err); ok {
//	    log.Printf("trade rejected: %s", reason)
//	}
package curve
