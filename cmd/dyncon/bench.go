// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	randv1 "math/rand"
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/dyncon"
	"github.com/cockroachdb/dyncon/internal/randvar"
	"github.com/cockroachdb/dyncon/internal/unionfind"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/metamorphic"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second

	plotWidth  = 72
	plotHeight = 12
)

type benchOptions struct {
	vertices    int
	ops         int
	add         int
	remove      int
	query       int
	dist        string
	seed        uint64
	concurrency int
	verify      bool
	plot        bool
}

var benchConfig benchOptions

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "run a random workload of edge insertions, removals and queries",
	Long: `
Run a random workload against one graph per worker. Insertions pick both
endpoints from the vertex distribution; removals pick a uniformly random
edge currently in the graph; queries pick both vertices from the vertex
distribution. Per-operation latencies and the final shape of the levels of
the first worker's graph are reported.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(context.Background(), cmd.OutOrStdout(), benchConfig)
	},
}

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opQuery
	numOps
)

var opNames = [numOps]string{"add", "remove", "query"}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

func recordLatency(h *hdrhistogram.Histogram, elapsed time.Duration) {
	if elapsed < minLatency {
		elapsed = minLatency
	} else if elapsed > maxLatency {
		elapsed = maxLatency
	}
	if err := h.RecordValue(elapsed.Nanoseconds()); err != nil {
		// The value was clamped to the histogram's range above.
		panic(fmt.Sprintf("recording value: %s", err))
	}
}

// newTreeRemovalHistogram returns the histogram shared by every worker's
// graph. Observations are in nanoseconds.
func newTreeRemovalHistogram() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dyncon",
		Name:      "tree_removal_latency_nanoseconds",
		Help:      "Latency of edge removals that cut a spanning tree edge.",
		Buckets: prometheus.ExponentialBucketsRange(
			float64(minLatency.Nanoseconds()), float64(maxLatency.Nanoseconds()), 20),
	})
}

type workerResult struct {
	hists      [numOps]*hdrhistogram.Histogram
	skipped    int
	metrics    dyncon.Metrics
	components []float64
}

func (o *benchOptions) validate() error {
	switch {
	case o.vertices < 1:
		return errors.Newf("--vertices must be positive: %d", o.vertices)
	case o.ops < 0:
		return errors.Newf("--ops must not be negative: %d", o.ops)
	case o.add < 0 || o.remove < 0 || o.query < 0:
		return errors.New("operation weights must not be negative")
	case o.add+o.remove+o.query == 0:
		return errors.New("at least one operation weight must be positive")
	case o.concurrency < 1:
		return errors.Newf("--concurrency must be positive: %d", o.concurrency)
	}
	return nil
}

func runBench(ctx context.Context, w io.Writer, cfg benchOptions) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.seed == 0 {
		cfg.seed = uint64(time.Now().UnixNano())
	}
	fmt.Fprintf(w, "bench: %d vertices, %d ops x %d workers, %s distribution, seed %d\n",
		cfg.vertices, cfg.ops, cfg.concurrency, cfg.dist, cfg.seed)

	results := make([]workerResult, cfg.concurrency)
	treeRemovals := newTreeRemovalHistogram()
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			return runWorker(ctx, cfg, i, treeRemovals, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	printLatencies(w, results, elapsed)
	if err := printTreeRemovals(w, treeRemovals); err != nil {
		return err
	}
	printLevels(w, &results[0].metrics)
	if cfg.plot && len(results[0].components) > 0 {
		fmt.Fprintln(w, asciigraph.Plot(results[0].components,
			asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
			asciigraph.Caption("components (worker 0)")))
	}
	if cfg.verify {
		fmt.Fprintln(w, "verify: ok")
	}
	return nil
}

func runWorker(
	ctx context.Context, cfg benchOptions, id int, treeRemovals prometheus.Histogram, res *workerResult,
) error {
	rng := randvar.NewRand(cfg.seed + uint64(id))
	vertexDist, err := randvar.Parse(cfg.dist, rng, uint64(cfg.vertices))
	if err != nil {
		return err
	}
	opts := &dyncon.Options{
		Seed:               rng.Uint64() | 1,
		Logger:             dyncon.DefaultLogger,
		TreeRemovalLatency: treeRemovals,
	}
	if verbose {
		l := dyncon.MakeLoggingEventListener(opts.Logger)
		opts.EventListener = &l
	}
	graph, err := dyncon.New(cfg.vertices, opts)
	if err != nil {
		return err
	}
	var oracle *unionfind.Oracle
	if cfg.verify {
		oracle = unionfind.NewOracle(cfg.vertices)
	}
	for k := range res.hists {
		res.hists[k] = newHistogram()
	}

	nextOp := metamorphic.Weighted[opKind]{
		{Item: opAdd, Weight: cfg.add},
		{Item: opRemove, Weight: cfg.remove},
		{Item: opQuery, Weight: cfg.query},
	}.RandomDeck(randv1.New(randv1.NewSource(int64(rng.Uint64()))))

	var edges []dyncon.Edge
	sampleEvery := max(1, cfg.ops/plotWidth)
	for i := 0; i < cfg.ops; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if cfg.plot && id == 0 && i%sampleEvery == 0 {
			res.components = append(res.components, float64(graph.ComponentCount()))
		}

		switch nextOp() {
		case opAdd:
			u, v := int(vertexDist.Uint64()), int(vertexDist.Uint64())
			if u == v {
				res.skipped++
				continue
			}
			begin := time.Now()
			err := graph.AddEdge(u, v)
			recordLatency(res.hists[opAdd], time.Since(begin))
			if err != nil {
				return err
			}
			edges = append(edges, dyncon.MakeEdge(u, v))
			if oracle != nil {
				oracle.AddEdge(u, v)
			}

		case opRemove:
			if len(edges) == 0 {
				res.skipped++
				continue
			}
			j := rng.Intn(len(edges))
			e := edges[j]
			edges[j] = edges[len(edges)-1]
			edges = edges[:len(edges)-1]
			begin := time.Now()
			err := graph.RemoveEdge(int(e.Lo), int(e.Hi))
			recordLatency(res.hists[opRemove], time.Since(begin))
			if err != nil {
				return err
			}
			if oracle != nil {
				oracle.RemoveEdge(int(e.Lo), int(e.Hi))
			}

		default:
			u, v := int(vertexDist.Uint64()), int(vertexDist.Uint64())
			begin := time.Now()
			ok, err := graph.Connected(u, v)
			recordLatency(res.hists[opQuery], time.Since(begin))
			if err != nil {
				return err
			}
			if oracle != nil && ok != oracle.Connected(u, v) {
				return errors.Newf("worker %d: op %d: connected(%d, %d) = %t, oracle disagrees", id, i, u, v, ok)
			}
		}

		if oracle != nil {
			if got, want := graph.ComponentCount(), oracle.ComponentCount(); got != want {
				return errors.Newf("worker %d: op %d: %d components, oracle has %d", id, i, got, want)
			}
		}
	}
	if oracle != nil {
		if err := graph.CheckInvariants(); err != nil {
			return errors.Wrapf(err, "worker %d", id)
		}
	}
	res.metrics = graph.Metrics()
	return nil
}

func printLatencies(w io.Writer, results []workerResult, elapsed time.Duration) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"op", "ops", "ops/sec", "mean", "p50", "p95", "p99", "max"})
	for k := opKind(0); k < numOps; k++ {
		h := newHistogram()
		for i := range results {
			h.Merge(results[i].hists[k])
		}
		if h.TotalCount() == 0 {
			continue
		}
		q := func(p float64) string {
			return time.Duration(h.ValueAtQuantile(p)).String()
		}
		tbl.Append([]string{
			opNames[k],
			string(crhumanize.Count(h.TotalCount(), crhumanize.Compact)),
			fmt.Sprintf("%.0f", float64(h.TotalCount())/elapsed.Seconds()),
			time.Duration(h.Mean()).String(),
			q(50), q(95), q(99),
			time.Duration(h.Max()).String(),
		})
	}
	tbl.Render()

	skipped := 0
	for i := range results {
		skipped += results[i].skipped
	}
	if skipped > 0 {
		fmt.Fprintf(w, "skipped: %d (self loops or removals from an empty graph)\n", skipped)
	}
}

func printTreeRemovals(w io.Writer, h prometheus.Histogram) error {
	m := &dto.Metric{}
	if err := h.Write(m); err != nil {
		return err
	}
	ph := m.GetHistogram()
	if ph.GetSampleCount() == 0 {
		return nil
	}
	fmt.Fprintf(w, "tree removals: %s  mean: %s\n",
		crhumanize.Count(ph.GetSampleCount(), crhumanize.Compact),
		time.Duration(ph.GetSampleSum()/float64(ph.GetSampleCount())))
	return nil
}

func printLevels(w io.Writer, m *dyncon.Metrics) {
	fmt.Fprintf(w, "components: %d  tree edges: %d  non-tree edges: %d  occurrences: %d\n",
		m.Components, m.TreeEdges(), m.WeakEdges(), m.Occurrences)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"level", "forest", "tree", "non-tree", "occurrences"})
	for l := len(m.Levels) - 1; l >= 0; l-- {
		lm := &m.Levels[l]
		tbl.Append([]string{
			strconv.Itoa(l),
			strconv.Itoa(lm.TreeEdges),
			strconv.Itoa(lm.LevelTreeEdges),
			strconv.Itoa(lm.WeakEdges),
			strconv.Itoa(lm.Occurrences),
		})
	}
	tbl.Render()
	fmt.Fprintf(w, "replacements: %s  disconnections: %s  demotions: %s tree, %s non-tree\n",
		crhumanize.Count(m.Replacements, crhumanize.Compact),
		crhumanize.Count(m.Disconnections, crhumanize.Compact),
		crhumanize.Count(m.TreeDemotions, crhumanize.Compact),
		crhumanize.Count(m.WeakDemotions, crhumanize.Compact))
}
