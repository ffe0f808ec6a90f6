// Package session owns the long-lived computed state of a loaded portfolio
// document: the deserialized PortfolioState, its valuation index, and the
// result caches. It serves valuation and KPI requests off the interactive
// path through a dedicated worker goroutine, with request-supersession
// semantics for the asynchronous facade.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
)

// KPI is the result of one performance window calculation.
type KPI struct {
	NAV             float64   // total valuation at EndDate
	TWR             float64   // time-weighted return over the window
	IRR             float64   // money-weighted return over the window
	CapitalInvested float64   // net external capital over the window
	StartDate       date.Date
	EndDate         date.Date
	Duration        time.Duration // time spent computing
}

// ValuationData is a dated point valuation.
type ValuationData struct {
	Date date.Date
	ppview.Valuation
}

// Period names a KPI window for batch precomputation.
type Period struct {
	Key   string
	Start date.Date
	End   date.Date
}

// Status describes the asynchronous KPI facade state.
type Status string

const (
	StatusIdle        Status = "IDLE"
	StatusCalculating Status = "CALCULATING"
	StatusReady       Status = "READY"
	StatusError       Status = "ERROR"
)

// View is what the consuming surface renders. While a newer request is
// pending, Data keeps the previous result and Stale is set, so the consumer
// can keep showing the last known values with a staleness indicator.
type View struct {
	Status Status
	Data   *KPI
	Stale  bool
	Err    *ppview.Error
}

// Session is an explicit, self-contained computation session. It is
// constructed empty, loaded through Init, and discarded by Close; no global
// state is involved, so multiple sessions can coexist.
type Session struct {
	log zerolog.Logger

	requests chan request
	done     chan struct{}
	closed   atomic.Bool

	// kpiCache is keyed "start|end"; a hit never reaches the worker.
	kpiCache *gocache.Cache

	lastRequestID atomic.Uint64

	mu   sync.Mutex
	view View
	// generation counts dataset replacements. A KPI result is only
	// written to the cache when the dataset it was computed against is
	// still the loaded one, so a calculation in flight across an Init
	// cannot seed the cache with stale figures.
	generation uint64
}

type request struct {
	run   func(w *worker) (any, error)
	reply chan response
	ctx   context.Context
}

type response struct {
	value any
	err   error
}

// New creates an uninitialized session and starts its worker.
func New(log zerolog.Logger) *Session {
	s := &Session{
		log:      log,
		requests: make(chan request),
		done:     make(chan struct{}),
		kpiCache: gocache.New(gocache.NoExpiration, 0),
		view:     View{Status: StatusIdle},
	}
	go s.serve()
	return s
}

// serve is the worker loop. The worker value is confined to this goroutine;
// all mutable compute state lives inside it.
func (s *Session) serve() {
	w := newWorker(s.log)
	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			// A request whose context died while queued is not computed.
			if err := req.ctx.Err(); err != nil {
				req.reply <- response{err: ppview.NewError(ppview.CodeWorkerTerminated, true, "request abandoned: %v", err)}
				continue
			}
			value, err := w.execute(req.run)
			req.reply <- response{value: value, err: err}
		}
	}
}

// call hands one operation to the worker and waits for its response.
func (s *Session) call(ctx context.Context, run func(w *worker) (any, error)) (any, error) {
	if s.closed.Load() {
		return nil, ppview.NewError(ppview.CodeWorkerTerminated, false, "session is closed")
	}
	req := request{run: run, reply: make(chan response, 1), ctx: ctx}
	select {
	case s.requests <- req:
	case <-s.done:
		return nil, ppview.NewError(ppview.CodeWorkerTerminated, false, "session is closed")
	case <-ctx.Done():
		return nil, ppview.NewError(ppview.CodeWorkerTerminated, true, "request abandoned: %v", ctx.Err())
	}
	select {
	case res := <-req.reply:
		return res.value, res.err
	case <-ctx.Done():
		// The computation itself always runs to completion; only the
		// result is dropped.
		return nil, ppview.NewError(ppview.CodeWorkerTerminated, true, "request abandoned: %v", ctx.Err())
	}
}

// Init establishes the working dataset from its serialized boundary form
// and builds the valuation index. Re-initialization replaces prior state
// entirely, including every cache.
func (s *Session) Init(ctx context.Context, serialized []byte) error {
	_, err := s.call(ctx, func(w *worker) (any, error) {
		return nil, w.init(serialized)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.generation++
	s.kpiCache.Flush()
	s.view = View{Status: StatusIdle}
	s.mu.Unlock()
	return nil
}

// CalculateKPI computes NAV, TWR, IRR and capital flow for a window,
// serving from the KPI cache when possible.
func (s *Session) CalculateKPI(ctx context.Context, start, end date.Date) (KPI, error) {
	if end.Before(start) {
		return KPI{}, ppview.NewError(ppview.CodeInvalidDateRange, false,
			"end date %s precedes start date %s", end, start)
	}

	key := cacheKey(start, end)
	s.mu.Lock()
	gen := s.generation
	cached, ok := s.kpiCache.Get(key)
	s.mu.Unlock()
	if ok {
		return cached.(KPI), nil
	}

	value, err := s.call(ctx, func(w *worker) (any, error) {
		return w.calculateKPI(start, end)
	})
	if err != nil {
		return KPI{}, err
	}
	kpi := value.(KPI)
	s.mu.Lock()
	if gen == s.generation {
		s.kpiCache.Set(key, kpi, gocache.NoExpiration)
	}
	s.mu.Unlock()
	return kpi, nil
}

// CalculateValuation computes the point valuation at a date via the indexed
// fast path, with worker-side caching.
func (s *Session) CalculateValuation(ctx context.Context, on date.Date) (ValuationData, error) {
	value, err := s.call(ctx, func(w *worker) (any, error) {
		return w.valuationCached(on)
	})
	if err != nil {
		return ValuationData{}, err
	}
	return value.(ValuationData), nil
}

// CalculateValuationSeries computes one valuation per date, in input order,
// for charting.
func (s *Session) CalculateValuationSeries(ctx context.Context, dates []date.Date) ([]ValuationData, error) {
	value, err := s.call(ctx, func(w *worker) (any, error) {
		return w.valuationSeries(dates)
	})
	if err != nil {
		return nil, err
	}
	return value.([]ValuationData), nil
}

// CalculateAllKPI batch-computes the given periods, seeding the KPI cache.
// Used to precompute common windows right after load.
func (s *Session) CalculateAllKPI(ctx context.Context, periods []Period) (map[string]KPI, error) {
	results := make(map[string]KPI, len(periods))
	started := time.Now()
	for _, p := range periods {
		kpi, err := s.CalculateKPI(ctx, p.Start, p.End)
		if err != nil {
			return nil, fmt.Errorf("period %q: %w", p.Key, err)
		}
		results[p.Key] = kpi
	}
	s.log.Info().Int("periods", len(periods)).
		Dur("elapsed", time.Since(started)).
		Msg("batch KPI precomputed")
	return results, nil
}

// Precompute seeds the KPI cache with the all-time and year-to-date
// windows relative to 'today'.
func (s *Session) Precompute(ctx context.Context, today date.Date) error {
	value, err := s.call(ctx, func(w *worker) (any, error) {
		return w.oldestTransactionDate()
	})
	if err != nil {
		return err
	}
	first := value.(date.Date)
	if first.IsZero() {
		return nil
	}
	ytd := date.New(today.Year(), 1, 1)
	periods := []Period{
		{Key: cacheKey(first, today), Start: first, End: today},
		{Key: cacheKey(ytd, today), Start: ytd, End: today},
	}
	_, err = s.CalculateAllKPI(ctx, periods)
	return err
}

// RequestKPI is the asynchronous facade: it dispatches the calculation and
// returns immediately. The current View keeps the previous data, marked
// stale, until the result lands. If a newer request is issued before this
// one completes, this one's result is discarded on arrival
// (last-request-wins). The returned channel receives the final view of
// this request once, whether it won or was superseded.
func (s *Session) RequestKPI(ctx context.Context, start, end date.Date) <-chan View {
	id := s.lastRequestID.Add(1)

	s.mu.Lock()
	s.view.Status = StatusCalculating
	s.view.Stale = s.view.Data != nil
	s.view.Err = nil
	s.mu.Unlock()

	out := make(chan View, 1)
	go func() {
		defer close(out)
		kpi, err := s.CalculateKPI(ctx, start, end)

		s.mu.Lock()
		defer s.mu.Unlock()
		if id != s.lastRequestID.Load() {
			// Superseded: a newer request owns the view now.
			out <- s.view
			return
		}
		if err != nil {
			s.view.Status = StatusError
			s.view.Err = ppview.AsError(err)
		} else {
			s.view = View{Status: StatusReady, Data: &kpi}
		}
		out <- s.view
	}()
	return out
}

// View returns the current state of the asynchronous KPI facade.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Close tears the session down. In-flight requests fail with
// WORKER_TERMINATED; the session cannot be reused.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
	}
}

func cacheKey(start, end date.Date) string {
	return start.String() + "|" + end.String()
}
