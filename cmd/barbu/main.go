package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"barbu/internal/app"
	"barbu/internal/config"
	"barbu/internal/domain"
	"barbu/internal/ports/archive"
	"barbu/internal/ports/sqlite"
)

const usage = `usage: barbu <command> [flags]

commands:
  new       -players "Ann,Bob,Cid,Dee"
  list
  show      -game ID
  contract  -game ID -c CONTRACT
  positions -game ID -values 1,2,3,4
  bids      -game ID -values 4,3,3,3
  inputs    -game ID [-counts 4,3,3,3] [-taker SEAT] [-second-last SEAT] [-last SEAT]
  doubles   -game ID [-doubles 1,2] [-redoubles 1] [-maximum] [-family]
  cancel    -game ID
  undo      -game ID
  export    -game ID
  import    -file PATH [-rebuild-compliance]
  delete    -game ID

common flags: -config PATH -db PATH -owner NAME`

func main() {
	logger := log.New(os.Stderr, "[barbu] ", log.LstdFlags)
	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Fatalf("%v", err)
	}
}

// env is what every command needs once flags are parsed.
type env struct {
	svc   *app.Service
	owner string
	out   io.Writer
}

func run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return flag.ErrHelp
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "YAML config path (optional)")
	dbPath := fs.String("db", "", "sqlite database path (overrides config)")
	owner := fs.String("owner", "local", "owner id the games are stored under")
	gameID := fs.String("game", "", "game id")
	players := fs.String("players", "", "comma separated player names in seat order")
	contract := fs.String("c", "", "contract id")
	values := fs.String("values", "", "comma separated per-seat values")
	counts := fs.String("counts", "", "comma separated per-seat counts")
	taker := fs.Int("taker", -1, "seat that took the king of hearts")
	secondLast := fs.Int("second-last", -1, "seat that took the second-to-last trick")
	last := fs.Int("last", -1, "seat that took the last trick")
	doubles := fs.String("doubles", "", "comma separated doubling seats")
	redoubles := fs.String("redoubles", "", "comma separated redoubled seats")
	maximum := fs.Bool("maximum", false, "dealer declared maximum-table")
	family := fs.Bool("family", false, "dealer declared family-flanks")
	file := fs.String("file", "", "document to import")
	rebuild := fs.Bool("rebuild-compliance", false, "recount doubling compliance from the imported hands")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		if err := config.LoadGameConfig(*configPath); err != nil {
			return err
		}
		cfg = config.GetGameConfig()
	}
	path := cfg.Store.SQLitePath
	if *dbPath != "" {
		path = *dbPath
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	e := env{
		svc:   app.NewService(store, archive.NewWriter(cfg.Export.Dir, cfg.Export.Compress), cfg.DomainRules()),
		owner: *owner,
		out:   out,
	}

	switch cmd {
	case "new":
		names := splitList(*players)
		if len(names) != domain.NumSeats {
			return fmt.Errorf("-players needs %d names, got %d", domain.NumSeats, len(names))
		}
		var seats [domain.NumSeats]string
		copy(seats[:], names)
		id, g, _, err := e.svc.CreateGame(ctx, e.owner, seats)
		if err != nil {
			return err
		}
		logger.Printf("created game %s", id)
		printGame(out, id, g)
		return nil
	case "list":
		ids, err := e.svc.ListGames(ctx, e.owner)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	case "import":
		data, err := archive.ReadExport(*file)
		if err != nil {
			return err
		}
		id, g, err := e.svc.ImportGame(ctx, e.owner, data, *rebuild)
		if err != nil {
			return err
		}
		logger.Printf("imported %s as game %s", *file, id)
		printGame(out, id, g)
		return nil
	}

	if *gameID == "" {
		return fmt.Errorf("%s: missing -game", cmd)
	}
	id := *gameID

	switch cmd {
	case "show":
		g, err := e.svc.GetGame(ctx, e.owner, id)
		if err != nil {
			return err
		}
		printGame(out, id, g)
		return nil
	case "contract":
		return e.show(logger, id)(e.svc.SelectContract(ctx, e.owner, id, *contract))
	case "positions":
		v, err := parseInts(*values)
		if err != nil {
			return err
		}
		return e.show(logger, id)(e.svc.EnterPositions(ctx, e.owner, id, v))
	case "bids":
		v, err := parseInts(*values)
		if err != nil {
			return err
		}
		return e.show(logger, id)(e.svc.EnterBids(ctx, e.owner, id, v))
	case "inputs":
		c, err := parseInts(*counts)
		if err != nil {
			return err
		}
		in := domain.HandInputs{Counts: c, Taker: *taker, SecondLast: *secondLast, Last: *last}
		return e.show(logger, id)(e.svc.SubmitInputs(ctx, e.owner, id, in))
	case "doubles":
		d, err := parseInts(*doubles)
		if err != nil {
			return err
		}
		r, err := parseInts(*redoubles)
		if err != nil {
			return err
		}
		decl := domain.Doubles{
			Doublers:   d,
			Redoublers: r,
			Special:    domain.SpecialDoubles{MaximumTable: *maximum, FamilyFlanks: *family},
		}
		g, events, err := e.svc.DeclareDoubles(ctx, e.owner, id, decl)
		if errors.Is(err, domain.ErrComplianceNotMet) && g != nil {
			logger.Printf("game %s: %v", id, err)
			err = nil
		}
		return e.show(logger, id)(g, events, err)
	case "cancel":
		return e.show(logger, id)(e.svc.CancelHand(ctx, e.owner, id))
	case "undo":
		return e.show(logger, id)(e.svc.UndoLastHand(ctx, e.owner, id))
	case "export":
		where, err := e.svc.ArchiveGame(ctx, e.owner, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, where)
		return nil
	case "delete":
		if err := e.svc.DeleteGame(ctx, e.owner, id); err != nil {
			return err
		}
		logger.Printf("deleted game %s", id)
		return nil
	default:
		fmt.Fprintln(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (e env) show(logger *log.Logger, id string) func(*domain.Game, []app.Event, error) error {
	return func(g *domain.Game, events []app.Event, err error) error {
		if err != nil {
			return err
		}
		for _, ev := range events {
			logger.Printf("game %s: %s", id, ev.Kind)
		}
		printGame(e.out, id, g)
		return nil
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseInts(s string) ([]int, error) {
	parts := splitList(s)
	if parts == nil {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
