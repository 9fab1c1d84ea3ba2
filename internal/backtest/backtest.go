package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

// CSV-based replay harness for historical rate snapshots.
// CSV format: ts,from,to,rate — consecutive rows sharing a ts form one snapshot.
// Env var: ARBFINDER_BACKTEST_CSV=/path/to/file.csv
func RunSimpleCSV(sc *scanner.Scanner) error {
	path := os.Getenv("ARBFINDER_BACKTEST_CSV")
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := csv.NewReader(f)

	var (
		snapshots int
		opps      int
		losses    int
		curTS     string
		snap      map[graph.Pair]float64
	)
	flush := func() {
		if len(snap) == 0 {
			return
		}
		snapshots++
		g, err := graph.Build(snap)
		if err != nil {
			return
		}
		res, err := sc.Scan(g.Tickers(), g)
		if err != nil {
			return
		}
		if res.BestOpportunity != nil {
			opps++
		}
		if res.LargestLoss != nil {
			losses++
		}
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(rec) < 4 {
			continue
		}
		if rec[0] != curTS {
			flush()
			curTS = rec[0]
			snap = map[graph.Pair]float64{}
		}
		rate, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			continue
		}
		snap[graph.Pair{From: graph.NewTicker(rec[1]), To: graph.NewTicker(rec[2])}] = rate
	}
	flush()
	fmt.Printf("backtest snapshots=%d opportunities=%d losses=%d at %s\n", snapshots, opps, losses, time.Now().Format(time.RFC3339))
	return nil
}
