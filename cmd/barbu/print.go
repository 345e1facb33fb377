package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"barbu/internal/domain"
)

func printGame(out io.Writer, id string, g *domain.Game) {
	fmt.Fprintf(out, "game %s\n", id)
	switch {
	case g.Completed:
		fmt.Fprintln(out, "complete")
	case g.CompletionBlocked():
		fmt.Fprintln(out, "all hands played; doubling requirement not met, undo hands to fix")
	default:
		dealer := g.Dealer()
		fmt.Fprintf(out, "hand %d/%d  dealer %s  phase %s\n", g.CurrentHand, domain.TotalHands, g.Players[dealer].Name, g.Phase())
		var avail []string
		for _, c := range g.AvailableContracts() {
			avail = append(avail, c.String())
		}
		fmt.Fprintf(out, "available: %s\n", strings.Join(avail, " "))
		if p := g.Pending; p != nil && p.Phase == domain.PhaseNegotiatingDoubles {
			fmt.Fprintf(out, "%s raw: %v\n", p.Contract, p.Raw)
		}
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "hand\tdealer\tcontract\tfinal\tdoubles\t")
	for _, rec := range g.Ledger.Records() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%v\t\n", rec.Ordinal, g.Players[rec.Dealer].Name, rec.Contract, rec.Final, rec.Doublers)
	}
	fmt.Fprint(tw, "total\t\t\t")
	var totals [domain.NumSeats]int
	for seat, p := range g.Players {
		totals[seat] = p.TotalScore
	}
	fmt.Fprintf(tw, "%v\t\t\n", totals)
	tw.Flush()

	if short := g.Compliance.Shortfall(); len(short) > 0 && !g.Completed {
		fmt.Fprintf(out, "doubles still owed: ")
		for i, pair := range short {
			if i > 0 {
				fmt.Fprint(out, ", ")
			}
			fmt.Fprintf(out, "%s->%s %d/%d", g.Players[pair.Challenger].Name, g.Players[pair.Dealer].Name, pair.Count, domain.RequiredChallenges)
		}
		fmt.Fprintln(out)
	}
}
