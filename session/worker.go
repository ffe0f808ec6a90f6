package session

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
)

// maxValuationCacheEntries bounds the worker-side valuation cache. When the
// bound is reached the oldest half of the entries is evicted in one pass.
const maxValuationCacheEntries = 1000

// worker holds the compute state confined to the session's worker
// goroutine: the deserialized dataset, its valuation index, and the
// valuation cache.
type worker struct {
	log   zerolog.Logger
	state *ppview.PortfolioState
	index *ppview.Index

	// cacheMu exists only because valuationSeries fans out readers over
	// the immutable index; everything else on the worker is single-threaded.
	cacheMu  sync.Mutex
	valCache map[date.Date]ppview.Valuation
	valOrder []date.Date
}

func newWorker(log zerolog.Logger) *worker {
	return &worker{log: log}
}

// execute runs one operation, converting panics into recoverable overflow
// errors so a single bad calculation cannot take the worker down.
func (w *worker) execute(run func(w *worker) (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Any("panic", r).Msg("calculation panicked")
			err = ppview.NewError(ppview.CodeCalculationOverflow, true, "calculation failed: %v", r)
		}
	}()
	value, err = run(w)
	if err != nil {
		err = ppview.AsError(err)
	}
	return value, err
}

func (w *worker) init(serialized []byte) error {
	state, err := ppview.Deserialize(serialized)
	if err != nil {
		return ppview.NewError(ppview.CodeCalculationOverflow, false, "deserialize: %v", err)
	}
	started := time.Now()
	idx := ppview.BuildIndex(state)
	first, last := idx.Bounds()
	w.log.Info().
		Int("securities", len(state.Securities)).
		Stringer("first", first).
		Stringer("last", last).
		Dur("elapsed", time.Since(started)).
		Msg("valuation index built")

	w.state = state
	w.index = idx
	w.cacheMu.Lock()
	w.valCache = make(map[date.Date]ppview.Valuation)
	w.valOrder = w.valOrder[:0]
	w.cacheMu.Unlock()
	return nil
}

func (w *worker) requireState() error {
	if w.state == nil {
		return ppview.NewError(ppview.CodeStateNotInitialized, false, "session state not initialized")
	}
	return nil
}

func (w *worker) oldestTransactionDate() (date.Date, error) {
	if err := w.requireState(); err != nil {
		return date.Date{}, err
	}
	return w.state.OldestTransactionDate(), nil
}

func (w *worker) calculateKPI(start, end date.Date) (KPI, error) {
	if err := w.requireState(); err != nil {
		return KPI{}, err
	}
	started := time.Now()
	nav := w.index.ValuateFast(end, w.state.Securities)
	twr := ppview.CalculateTWR(w.state, start, end)
	irr := ppview.CalculateIRR(w.state, start, end)
	flow := ppview.CalculateCapitalFlow(w.state, start, end)
	kpi := KPI{
		NAV:             nav.TotalValue,
		TWR:             twr,
		IRR:             irr,
		CapitalInvested: flow.NetInvested,
		StartDate:       start,
		EndDate:         end,
		Duration:        time.Since(started),
	}
	w.log.Debug().
		Stringer("start", start).
		Stringer("end", end).
		Dur("elapsed", kpi.Duration).
		Msg("KPI computed")
	return kpi, nil
}

func (w *worker) valuationCached(on date.Date) (ValuationData, error) {
	if err := w.requireState(); err != nil {
		return ValuationData{}, err
	}
	w.cacheMu.Lock()
	if v, ok := w.valCache[on]; ok {
		w.cacheMu.Unlock()
		return ValuationData{Date: on, Valuation: v}, nil
	}
	w.cacheMu.Unlock()

	v := w.index.ValuateFast(on, w.state.Securities)

	w.cacheMu.Lock()
	if _, ok := w.valCache[on]; !ok {
		if len(w.valOrder) >= maxValuationCacheEntries {
			w.evictOldestHalfLocked()
		}
		w.valCache[on] = v
		w.valOrder = append(w.valOrder, on)
	}
	w.cacheMu.Unlock()
	return ValuationData{Date: on, Valuation: v}, nil
}

// evictOldestHalfLocked drops the oldest-inserted half of the valuation
// cache. Caller holds cacheMu.
func (w *worker) evictOldestHalfLocked() {
	half := len(w.valOrder) / 2
	for _, d := range w.valOrder[:half] {
		delete(w.valCache, d)
	}
	w.valOrder = append(w.valOrder[:0], w.valOrder[half:]...)
	w.log.Debug().Int("evicted", half).Msg("valuation cache trimmed")
}

// valuationSeries fans the per-date lookups out over the immutable index.
// Result order matches input order.
func (w *worker) valuationSeries(dates []date.Date) ([]ValuationData, error) {
	if err := w.requireState(); err != nil {
		return nil, err
	}
	results := make([]ValuationData, len(dates))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, on := range dates {
		g.Go(func() error {
			v, err := w.valuationCached(on)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
