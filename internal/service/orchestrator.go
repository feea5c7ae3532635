package service

import (
	"context"
	"sync"

	"address-search/internal/models"

	"github.com/rs/zerolog"
)

// DefaultRegionSpanMeters is the latitudinal and longitudinal span of the region
// handed to the region search. It is wide enough not to act as a filter.
const DefaultRegionSpanMeters = 10_000_000

// Status is the orchestrator's session state.
type Status int

const (
	StatusIdle Status = iota
	StatusSearching
)

func (s Status) String() string {
	if s == StatusSearching {
		return "searching"
	}
	return "idle"
}

// SearchResult is what a completed pass publishes.
type SearchResult struct {
	Query       string         `json:"query"`
	Generation  uint64         `json:"generation"`
	Buckets     models.Buckets `json:"buckets"`
	RateLimited bool           `json:"rateLimited"`
}

// Sink receives one SearchResult per completed pass, in pass order.
type Sink func(SearchResult)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithPostalVariants sets the postal field-variant probe order.
func WithPostalVariants(variants []models.PostalField) Option {
	return func(o *Orchestrator) { o.variants = variants }
}

// WithRegionSpan sets the region span in meters.
func WithRegionSpan(meters float64) Option {
	return func(o *Orchestrator) {
		if meters > 0 {
			o.regionSpan = meters
		}
	}
}

// WithContext sets the context handed to every lookup.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) { o.ctx = ctx }
}

// Orchestrator coordinates search passes over the three lookup sources.
//
// At most one pass is in flight. Queries submitted while a pass runs replace a
// single pending slot and start once the pass has been published. A query equal
// to the last accepted one is ignored.
type Orchestrator struct {
	sources    Sources
	sink       Sink
	postal     *PostalStage
	variants   []models.PostalField
	regionSpan float64
	logger     zerolog.Logger
	ctx        context.Context

	mu           sync.Mutex
	idle         *sync.Cond
	status       Status
	lastAccepted string
	pending      *string
	generation   uint64
	current      *pass
}

// pass owns the state of one run. Only the goroutines of that run write to it,
// and every write goes through Orchestrator.update.
type pass struct {
	generation    uint64
	query         string
	addressString Accumulator
	postalAddress Accumulator
	regionSearch  Accumulator
	rateLimited   bool
	completed     bool
}

func (p *pass) result() SearchResult {
	return SearchResult{
		Query:      p.query,
		Generation: p.generation,
		Buckets: models.Buckets{
			AddressString: p.addressString.Items(),
			PostalAddress: p.postalAddress.Items(),
			RegionSearch:  p.regionSearch.Items(),
		},
		RateLimited: p.rateLimited,
	}
}

// NewOrchestrator creates an idle orchestrator. A nil sink discards results.
func NewOrchestrator(sources Sources, sink Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sources:    sources,
		sink:       sink,
		regionSpan: DefaultRegionSpanMeters,
		logger:     zerolog.Nop(),
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = func(SearchResult) {}
	}
	o.idle = sync.NewCond(&o.mu)
	o.postal = NewPostalStage(sources.PostalAddress, o.variants, o.logger)
	return o
}

// Submit requests a search for query. It never blocks on lookups.
func (o *Orchestrator) Submit(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitLocked(query)
}

// Status returns the current session state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Wait blocks until no pass is in flight and nothing is pending.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.status == StatusSearching {
		o.idle.Wait()
	}
}

func (o *Orchestrator) submitLocked(query string) {
	if query == o.lastAccepted {
		o.logger.Debug().Str("query", query).Msg("query unchanged, ignoring")
		return
	}

	if o.status == StatusSearching {
		o.pending = &query
		o.logger.Debug().Str("query", query).Msg("search busy, query reserved")
		return
	}

	o.generation++
	p := &pass{generation: o.generation, query: query}
	o.status = StatusSearching
	o.lastAccepted = query
	o.current = p

	o.logger.Debug().Str("query", query).Uint64("generation", p.generation).Msg("search")
	go o.run(p)
}

// update applies fn to p if p is still the live, uncompleted pass.
func (o *Orchestrator) update(p *pass, fn func(p *pass)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != p || p.completed {
		o.logger.Warn().Uint64("generation", p.generation).Msg("discarding stale lookup result")
		return false
	}
	fn(p)
	return true
}

// run executes one pass. When the address string lookup is rate limited the
// region search starts right away alongside the postal stage, and the pass
// completes only after both have finished.
func (o *Orchestrator) run(p *pass) {
	records, err := o.sources.AddressString.GeocodeAddress(o.ctx, p.query)

	var regionDone chan struct{}
	switch kind := ClassifyError(err); kind {
	case models.ErrorKindNone:
		o.update(p, func(p *pass) { p.addressString.Assign(records) })
	case models.ErrorKindRateLimited:
		o.logger.Info().Str("query", p.query).Msg("geocoder request limit occurred, starting region search early")
		o.update(p, func(p *pass) { p.rateLimited = true })
		regionDone = make(chan struct{})
		go func() {
			defer close(regionDone)
			o.searchRegion(p)
		}()
	default:
		o.logger.Debug().Err(err).Str("query", p.query).Msg("address string lookup failed")
	}

	o.postal.Run(o.ctx, p.query, passAppender{o: o, p: p})

	if regionDone != nil {
		<-regionDone
	} else {
		o.searchRegion(p)
	}

	o.complete(p)
}

func (o *Orchestrator) searchRegion(p *pass) {
	var center models.Coordinate
	if o.sources.Location != nil {
		center = o.sources.Location.Latest()
	}
	region := models.Region{
		Center:             center,
		LatitudinalMeters:  o.regionSpan,
		LongitudinalMeters: o.regionSpan,
	}

	records, err := o.sources.RegionSearch.SearchPlacemarksInRegion(o.ctx, p.query, region)
	if err != nil {
		o.logger.Debug().Err(err).Str("query", p.query).Msg("region search failed")
		return
	}
	o.update(p, func(p *pass) { p.regionSearch.Assign(records) })
}

// complete publishes p exactly once, then starts the pending query if any.
// The sink runs while the session is still Searching so results are delivered in pass order.
func (o *Orchestrator) complete(p *pass) {
	o.mu.Lock()
	if o.current != p || p.completed {
		o.mu.Unlock()
		o.logger.Warn().Uint64("generation", p.generation).Msg("ignoring duplicate completion")
		return
	}
	p.completed = true
	result := p.result()
	o.mu.Unlock()

	o.logger.Debug().
		Str("query", result.Query).
		Uint64("generation", result.Generation).
		Int("address_string", len(result.Buckets.AddressString)).
		Int("postal_address", len(result.Buckets.PostalAddress)).
		Int("region_search", len(result.Buckets.RegionSearch)).
		Bool("rate_limited", result.RateLimited).
		Msg("searchComplete")
	o.sink(result)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = StatusIdle
	o.current = nil
	if next := o.pending; next != nil {
		o.pending = nil
		o.submitLocked(*next)
	}
	if o.status == StatusIdle {
		o.idle.Broadcast()
	}
}

type passAppender struct {
	o *Orchestrator
	p *pass
}

func (a passAppender) TryAppend(r models.Placemark) bool {
	appended := false
	a.o.update(a.p, func(p *pass) { appended = p.postalAddress.TryAppend(r) })
	return appended
}
