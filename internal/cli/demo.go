package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/harness"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/journey"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/ledger"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/testutil"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions

	// Tamper controls whether the tampering demonstration runs.
	Tamper bool
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the OneStop order tracking simulation",
		Long: `Run the built-in OneStop simulation: two orders move through offices,
warehouses, and logistics partners, their journeys are displayed, and the
chain's integrity is verified. The tampering demonstration then alters a
sealed record, shows validation catching it, and restores the chain.

Example:
  chainlink demo
  chainlink demo --tamper=false --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Tamper, "tamper", true, "include the tampering demonstration")

	return cmd
}

// demoEvent is one scripted order event of the OneStop simulation.
type demoEvent struct {
	orderID  string
	location string
	action   string
	at       time.Time
	attrs    map[string]any
}

// demoEvents returns the scripted OneStop order history relative to now:
// a retail laptop order placed three days ago and a B2B bulk order placed
// five days ago. The B2B order's first event is deliberately backdated
// relative to the retail order's last one - the ledger records events in
// append order, not timestamp order.
func demoEvents(now time.Time) []demoEvent {
	retail := now.Add(-3 * 24 * time.Hour)
	b2b := now.Add(-5 * 24 * time.Hour)

	return []demoEvent{
		{"12345", "Brisbane Office", "Order Received", retail,
			map[string]any{"customer": "Ana", "product": "Laptop", "employee": "Sarah J"}},
		{"12345", "Sydney Warehouse", "Items Picked", retail.Add(2 * time.Hour),
			map[string]any{"picker": "John D", "quantity": "1 unit"}},
		{"12345", "Sydney Warehouse", "Items Packed", retail.Add(3*time.Hour + 30*time.Minute),
			map[string]any{"packer": "Maria K", "box_id": "BOX-7821"}},
		{"12345", "Logistics Partner (AusPost)", "Package Dispatched", retail.Add(32 * time.Hour),
			map[string]any{"tracking": "AP123456789AU", "driver": "Mike T"}},
		{"12345", "Customer Location (Brisbane)", "Delivered Successfully", retail.Add(59 * time.Hour),
			map[string]any{"recipient": "Ana", "signature": "Confirmed"}},

		{"67890", "Melbourne Office", "B2B Order Received", b2b,
			map[string]any{"customer": "Erick Corp", "value": "$15,000", "priority": "HIGH"}},
		{"67890", "Melbourne Warehouse", "Items Picked (Bulk)", b2b.Add(1 * time.Hour),
			map[string]any{"items": "Office supplies x500", "pallets": "4"}},
		{"67890", "Melbourne Warehouse", "Quality Check Completed", b2b.Add(24 * time.Hour),
			map[string]any{"inspector": "Linda P", "status": "PASSED"}},
		{"67890", "Logistics Partner (StarTrack)", "Freight Dispatched", b2b.Add(28 * time.Hour),
			map[string]any{"vehicle": "TRUCK-45", "driver": "Tom R"}},
		{"67890", "Erick Corp Warehouse (Sydney)", "Delivered & Signed", b2b.Add(81 * time.Hour),
			map[string]any{"recipient": "Erick", "invoice": "INV-67890"}},
	}
}

// demoTamperIndex is the record altered by the tampering demonstration:
// the retail order's logistics dispatch.
const demoTamperIndex = 4

func runDemo(opts *DemoOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	w := cmd.OutOrStdout()

	token := harness.UUIDGenerator{}.Generate()
	slog.Debug("starting demo run", "run_token", token)

	now := time.Now()
	events := demoEvents(now)

	// The ledger samples its clock once for genesis and once per append,
	// so the script carries the genesis timestamp first.
	script := make([]time.Time, 0, len(events)+1)
	script = append(script, now.Add(-6*24*time.Hour))
	for _, ev := range events {
		script = append(script, ev.at)
	}

	l, err := ledger.New(ledger.WithClock(testutil.NewScriptedClock(script, time.Minute)))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create ledger", err)
	}

	for _, ev := range events {
		attrs, err := attr.FromGoMap(ev.attrs)
		if err != nil {
			return WrapExitError(ExitCommandError, "bad demo event", err)
		}
		rec, err := l.Append(ev.orderID, ev.location, ev.action, attrs)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to append demo event", err)
		}
		slog.Debug("appended record", "index", rec.Index, "order", rec.OrderID, "action", rec.Action)
	}

	if opts.Format == "json" {
		return demoJSON(opts, w, l, token)
	}

	fmt.Fprintln(w, "\nCHAINLINK OPERATIONS SYSTEM - DEMONSTRATION")
	fmt.Fprintln(w, "Blockchain-based internal collaboration for OneStop")

	journey.Render(w, "12345", l.RecordsFor("12345"))
	journey.Render(w, "67890", l.RecordsFor("67890"))

	fmt.Fprintln(w, "CHAIN VALIDATION")
	if err := l.Validate(); err != nil {
		fmt.Fprintf(w, "CHAIN COMPROMISED: %v\n", err)
		return NewExitError(ExitFailure, "chain validation failed")
	}
	fmt.Fprintln(w, "CHAIN VALID - no tampering detected")

	if opts.Tamper {
		if err := demoTamper(w, l); err != nil {
			return err
		}
	}

	journey.Summarize(l.All(), l.Valid()).Render(w)
	return nil
}

// demoTamper alters a sealed record, shows validation catching it, and
// restores the chain to a valid state.
func demoTamper(w io.Writer, l *ledger.Ledger) error {
	fmt.Fprintln(w, "\nTAMPERING DETECTION DEMONSTRATION")
	fmt.Fprintf(w, "Altering record %d (logistics dispatch for Order #12345)...\n", demoTamperIndex)

	tamperer := ledger.NewTamperer(l)
	original, err := tamperer.SetAction(demoTamperIndex, "PACKAGE LOST")
	if err != nil {
		return WrapExitError(ExitCommandError, "tamper step failed", err)
	}
	fmt.Fprintf(w, "Modified: %q -> %q\n\n", original, "PACKAGE LOST")

	verr := l.Validate()
	if verr == nil {
		// The whole point of the chain is that this cannot happen.
		return NewExitError(ExitFailure, "tampering went undetected")
	}
	fmt.Fprintln(w, "TAMPERING DETECTED")
	fmt.Fprintf(w, "  %v\n", verr)
	fmt.Fprintln(w, "  Any attempt to alter records is immediately visible.")

	// Restore the original action and reseal.
	if _, err := tamperer.SetAction(demoTamperIndex, original); err != nil {
		return WrapExitError(ExitCommandError, "restore failed", err)
	}
	if err := tamperer.Reseal(demoTamperIndex); err != nil {
		return WrapExitError(ExitCommandError, "reseal failed", err)
	}
	if !l.Valid() {
		return NewExitError(ExitFailure, "chain still invalid after restore")
	}
	fmt.Fprintln(w, "\nRecord restored, chain valid again")
	return nil
}

// demoJSON emits the demo outcome as a JSON summary.
func demoJSON(opts *DemoOptions, w io.Writer, l *ledger.Ledger, token string) error {
	summary := journey.Summarize(l.All(), l.Valid())
	formatter := &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
	return formatter.Success(map[string]any{
		"run_token":     token,
		"total_records": summary.TotalRecords,
		"orders":        summary.Orders,
		"locations":     summary.Locations,
		"valid":         summary.Valid,
	})
}

// configureLogging sets the process-wide slog handler per the verbose flag.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
