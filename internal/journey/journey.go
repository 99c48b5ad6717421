// Package journey renders human-readable views of order journeys and chain
// summaries. It is a presentation layer consuming only the public ledger
// snapshot operations; nothing here mutates or validates the chain.
package journey

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/ledger"
)

const (
	bannerWide = "================================================================================"
	bannerThin = "--------------------------------------------------------------------------------"

	timeLayout = "2006-01-02 15:04:05"
)

// Render writes a formatted view of one order's journey through the
// system: every record for the order in chain order, with elapsed time
// from the first event and the total delivery time at the end.
//
// recs is the result of Ledger.RecordsFor and may be empty.
func Render(w io.Writer, orderID string, recs []ledger.Record) {
	if len(recs) == 0 {
		fmt.Fprintf(w, "No records found for Order #%s\n", orderID)
		return
	}

	fmt.Fprintf(w, "\n%s\n", bannerWide)
	fmt.Fprintf(w, "ORDER #%s - COMPLETE JOURNEY\n", orderID)
	fmt.Fprintf(w, "%s\n", bannerWide)

	start := recs[0].Timestamp
	for _, rec := range recs {
		elapsed := rec.Timestamp.Sub(start)

		fmt.Fprintf(w, "\nRecord %d\n", rec.Index)
		fmt.Fprintf(w, "  Timestamp:     %s\n", rec.Timestamp.UTC().Format(timeLayout))
		fmt.Fprintf(w, "  Time elapsed:  %.1f hours\n", elapsed.Hours())
		fmt.Fprintf(w, "  Location:      %s\n", rec.Location)
		fmt.Fprintf(w, "  Action:        %s\n", rec.Action)
		if len(rec.Attributes) > 0 {
			fmt.Fprintf(w, "  Details:       %s\n", formatAttributes(rec.Attributes))
		}
		fmt.Fprintf(w, "  Hash:          %s\n", truncateHash(rec.Hash))
		fmt.Fprintf(w, "  Previous hash: %s\n", truncateHash(rec.PrevHash))
	}

	total := recs[len(recs)-1].Timestamp.Sub(start)
	fmt.Fprintf(w, "\n%s\n", bannerThin)
	fmt.Fprintf(w, "TOTAL DELIVERY TIME: %s\n", formatDuration(total))
	fmt.Fprintf(w, "%s\n\n", bannerWide)
}

// RenderChain writes a compact listing of the whole chain, genesis
// included. recs is the result of Ledger.All.
func RenderChain(w io.Writer, recs []ledger.Record) {
	fmt.Fprintf(w, "\n%s\n", bannerWide)
	fmt.Fprintf(w, "COMPLETE CHAIN - ALL ORDERS\n")
	fmt.Fprintf(w, "%s\n", bannerWide)
	for _, rec := range recs {
		fmt.Fprintf(w, "\nRecord %d: Order #%s\n", rec.Index, rec.OrderID)
		fmt.Fprintf(w, "  Location: %s | Action: %s\n", rec.Location, rec.Action)
		fmt.Fprintf(w, "  Hash: %s | Previous: %s\n", truncateHash(rec.Hash), truncateHash(rec.PrevHash))
	}
	fmt.Fprintf(w, "%s\n\n", bannerWide)
}

// Summary aggregates chain-level statistics for display.
type Summary struct {
	// TotalRecords counts every record, genesis included.
	TotalRecords int

	// Orders lists distinct order IDs in first-seen order, genesis excluded.
	Orders []string

	// Locations lists distinct locations in first-seen order, genesis excluded.
	Locations []string

	// Valid reports the chain's integrity verdict at summary time.
	Valid bool
}

// Summarize computes summary statistics over a chain snapshot.
// valid is the caller's Ledger.Valid verdict; Summarize itself never
// triggers validation.
func Summarize(recs []ledger.Record, valid bool) Summary {
	s := Summary{TotalRecords: len(recs), Valid: valid}
	seenOrder := make(map[string]bool)
	seenLoc := make(map[string]bool)
	for _, rec := range recs {
		if rec.OrderID == ledger.GenesisOrderID {
			continue
		}
		if !seenOrder[rec.OrderID] {
			seenOrder[rec.OrderID] = true
			s.Orders = append(s.Orders, rec.OrderID)
		}
		if !seenLoc[rec.Location] {
			seenLoc[rec.Location] = true
			s.Locations = append(s.Locations, rec.Location)
		}
	}
	return s
}

// Render writes the summary block.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", bannerWide)
	fmt.Fprintf(w, "SUMMARY STATISTICS\n")
	fmt.Fprintf(w, "%s\n", bannerWide)
	fmt.Fprintf(w, "Total records in chain: %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Orders tracked: %d (%s)\n", len(s.Orders), strings.Join(s.Orders, ", "))
	fmt.Fprintf(w, "Locations: %d (%s)\n", len(s.Locations), strings.Join(s.Locations, ", "))
	verdict := "VALID"
	if !s.Valid {
		verdict = "INVALID - tampering detected"
	}
	fmt.Fprintf(w, "Chain integrity: %s\n", verdict)
	fmt.Fprintf(w, "%s\n\n", bannerWide)
}

// formatAttributes renders attributes as "k=v" pairs in canonical key
// order, so the same record always displays identically.
func formatAttributes(m attr.Map) string {
	parts := make([]string, 0, len(m))
	for _, k := range m.SortedKeys() {
		parts = append(parts, k+"="+formatValue(m[k]))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v attr.Value) string {
	switch val := v.(type) {
	case attr.String:
		return string(val)
	case attr.Int:
		return strconv.FormatInt(int64(val), 10)
	case attr.Bool:
		return strconv.FormatBool(bool(val))
	}
	return fmt.Sprintf("%v", v)
}

// formatDuration renders a duration as whole days and hours.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	return fmt.Sprintf("%d days, %d hours", hours/24, hours%24)
}

// truncateHash shortens a hash for display. Short sentinels (the genesis
// previous-hash "0") pass through unchanged.
func truncateHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return h[:16] + "..."
}
