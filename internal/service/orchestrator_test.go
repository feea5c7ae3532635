package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"address-search/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitIdle(t *testing.T, o *Orchestrator) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		o.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("orchestrator did not become idle")
	}
}

// holdFirst makes the address string lookup for query block until release is closed.
func holdFirst(query string, started chan<- struct{}, release <-chan struct{}) func(context.Context, string) ([]models.Placemark, error) {
	return func(_ context.Context, q string) ([]models.Placemark, error) {
		if q == query {
			close(started)
			<-release
		}
		return nil, models.ErrNoResults
	}
}

func TestOrchestrator_SinglePass(t *testing.T) {
	fake := &fakeSources{
		address: func(context.Context, string) ([]models.Placemark, error) {
			return []models.Placemark{
				{Name: "123 Main St", Locality: "Springfield"},
				{Name: "123 Main St", Locality: "Shelbyville"},
			}, nil
		},
		postal: func(context.Context, models.PostalAddress) ([]models.Placemark, error) {
			return []models.Placemark{{Thoroughfare: "Main St", SubThoroughfare: "123"}}, nil
		},
		region: func(context.Context, string, models.Region) ([]models.Placemark, error) {
			return nil, nil
		},
	}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("123 Main St")
	waitIdle(t, o)

	results := rec.all()
	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "123 Main St", res.Query)
	assert.Len(t, res.Buckets.AddressString, 2)
	assert.Len(t, res.Buckets.PostalAddress, 1)
	assert.Len(t, res.Buckets.RegionSearch, 0)
	assert.False(t, res.RateLimited)
	assert.Equal(t, uint64(1), res.Generation)
	assert.Equal(t, StatusIdle, o.Status())

	address, postal, region := fake.calls()
	assert.Equal(t, []string{"123 Main St"}, address)
	assert.Equal(t, []models.PostalAddress{{Street: "123 Main St"}}, postal)
	assert.Equal(t, []string{"123 Main St"}, region)
}

func TestOrchestrator_FailuresDegradeToEmptyBuckets(t *testing.T) {
	fake := &fakeSources{
		address: func(context.Context, string) ([]models.Placemark, error) {
			return nil, assert.AnError
		},
		postal: func(context.Context, models.PostalAddress) ([]models.Placemark, error) {
			return nil, assert.AnError
		},
		region: func(context.Context, string, models.Region) ([]models.Placemark, error) {
			return nil, assert.AnError
		},
	}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("nowhere")
	waitIdle(t, o)

	results := rec.all()
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Buckets.AddressString)
	assert.Empty(t, results[0].Buckets.PostalAddress)
	assert.Empty(t, results[0].Buckets.RegionSearch)
	assert.False(t, results[0].RateLimited)

	_, _, region := fake.calls()
	assert.Equal(t, []string{"nowhere"}, region, "region search runs after a failed address lookup")
}

func TestOrchestrator_RateLimited(t *testing.T) {
	regionStarted := make(chan struct{})
	concurrent := make(chan bool, 1)

	fake := &fakeSources{
		address: func(context.Context, string) ([]models.Placemark, error) {
			return nil, fmt.Errorf("geocoder: %w", models.ErrRateLimited)
		},
		postal: func(context.Context, models.PostalAddress) ([]models.Placemark, error) {
			select {
			case <-regionStarted:
				concurrent <- true
			case <-time.After(2 * time.Second):
				concurrent <- false
			}
			return []models.Placemark{{Name: "postal"}}, nil
		},
		region: func(context.Context, string, models.Region) ([]models.Placemark, error) {
			close(regionStarted)
			return []models.Placemark{{Name: "region"}}, nil
		},
	}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("Shibuya")
	waitIdle(t, o)

	results := rec.all()
	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.RateLimited)
	assert.Empty(t, res.Buckets.AddressString)
	assert.Equal(t, []models.Placemark{{Name: "postal"}}, res.Buckets.PostalAddress)
	assert.Equal(t, []models.Placemark{{Name: "region"}}, res.Buckets.RegionSearch)
	assert.True(t, <-concurrent, "region search should start while the postal stage runs")

	_, _, region := fake.calls()
	assert.Equal(t, []string{"Shibuya"}, region, "region search runs exactly once")
}

func TestOrchestrator_RateLimitedResetOnNextPass(t *testing.T) {
	fake := &fakeSources{
		address: func(_ context.Context, q string) ([]models.Placemark, error) {
			if q == "limited" {
				return nil, models.ErrRateLimited
			}
			return nil, nil
		},
	}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("limited")
	waitIdle(t, o)
	o.Submit("fine")
	waitIdle(t, o)

	results := rec.all()
	require.Len(t, results, 2)
	assert.True(t, results[0].RateLimited)
	assert.False(t, results[1].RateLimited)
}

func TestOrchestrator_CoalescesPendingQueries(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeSources{address: holdFirst("A", started, release)}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("A")
	<-started
	o.Submit("B")
	o.Submit("C")
	assert.Equal(t, StatusSearching, o.Status())
	close(release)
	waitIdle(t, o)

	assert.Equal(t, []string{"A", "C"}, rec.queries())
	address, _, _ := fake.calls()
	assert.Equal(t, []string{"A", "C"}, address, "intermediate query B must never run")

	results := rec.all()
	assert.Equal(t, uint64(1), results[0].Generation)
	assert.Equal(t, uint64(2), results[1].Generation)
}

func TestOrchestrator_DuplicateSubmission(t *testing.T) {
	fake := &fakeSources{}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("Kyoto")
	o.Submit("Kyoto")
	waitIdle(t, o)
	o.Submit("Kyoto")
	waitIdle(t, o)

	assert.Equal(t, []string{"Kyoto"}, rec.queries())
}

func TestOrchestrator_PendingEqualToActiveIsIgnored(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeSources{address: holdFirst("A", started, release)}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("A")
	<-started
	o.Submit("B")
	o.Submit("A")
	close(release)
	waitIdle(t, o)

	assert.Equal(t, []string{"A", "B"}, rec.queries())
}

func TestOrchestrator_ExactQueryComparison(t *testing.T) {
	fake := &fakeSources{}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	for _, q := range []string{"osaka", "Osaka", "Osaka "} {
		o.Submit(q)
		waitIdle(t, o)
	}

	assert.Equal(t, []string{"osaka", "Osaka", "Osaka "}, rec.queries())
}

func TestOrchestrator_EmptyQuery(t *testing.T) {
	fake := &fakeSources{}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink)

	o.Submit("")
	waitIdle(t, o)
	assert.Empty(t, rec.queries(), "empty query before any search matches the initial state")

	o.Submit("Nara")
	waitIdle(t, o)
	o.Submit("")
	waitIdle(t, o)
	assert.Equal(t, []string{"Nara", ""}, rec.queries())
}

func TestOrchestrator_PostalVariants(t *testing.T) {
	fake := &fakeSources{
		postal: func(_ context.Context, a models.PostalAddress) ([]models.Placemark, error) {
			switch {
			case a.Street != "":
				return nil, assert.AnError
			case a.City != "":
				return []models.Placemark{{Locality: "Sapporo"}, {Locality: "Sapporo"}}, nil
			default:
				return []models.Placemark{{Locality: "Sapporo"}, {Country: "Japan"}}, nil
			}
		},
	}
	rec := &recorder{}
	o := NewOrchestrator(fake.sources(), rec.sink, WithPostalVariants([]models.PostalField{
		models.PostalFieldStreet,
		models.PostalFieldCity,
		models.PostalFieldCountry,
	}))

	o.Submit("Sapporo")
	waitIdle(t, o)

	_, postal, _ := fake.calls()
	assert.Equal(t, []models.PostalAddress{
		{Street: "Sapporo"},
		{City: "Sapporo"},
		{Country: "Sapporo"},
	}, postal)

	results := rec.all()
	require.Len(t, results, 1)
	assert.Equal(t, []models.Placemark{{Locality: "Sapporo"}, {Country: "Japan"}}, results[0].Buckets.PostalAddress)
}

func TestOrchestrator_RegionUsesLatestLocation(t *testing.T) {
	fake := &fakeSources{}
	sources := fake.sources()
	sources.Location = fixedLocation{Latitude: 35.68, Longitude: 139.76}
	o := NewOrchestrator(sources, nil)

	o.Submit("Ginza")
	waitIdle(t, o)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.regions, 1)
	assert.Equal(t, models.Region{
		Center:             models.Coordinate{Latitude: 35.68, Longitude: 139.76},
		LatitudinalMeters:  DefaultRegionSpanMeters,
		LongitudinalMeters: DefaultRegionSpanMeters,
	}, fake.regions[0])
}

func TestOrchestrator_SubmitDuringSinkIsQueued(t *testing.T) {
	fake := &fakeSources{}
	rec := &recorder{}
	var o *Orchestrator
	o = NewOrchestrator(fake.sources(), func(r SearchResult) {
		rec.sink(r)
		if r.Query == "first" {
			assert.Equal(t, StatusSearching, o.Status())
			o.Submit("second")
		}
	})

	o.Submit("first")
	waitIdle(t, o)

	assert.Equal(t, []string{"first", "second"}, rec.queries())
}

func TestOrchestrator_CompleteIsIdempotent(t *testing.T) {
	rec := &recorder{}
	o := NewOrchestrator(Sources{}, rec.sink)

	p := &pass{generation: 7, query: "x"}
	o.status = StatusSearching
	o.current = p

	o.complete(p)
	o.complete(p)

	assert.Len(t, rec.all(), 1)
	assert.Equal(t, StatusIdle, o.Status())
}

func TestOrchestrator_StaleWritesAreDiscarded(t *testing.T) {
	o := NewOrchestrator(Sources{}, nil)

	stale := &pass{generation: 1, query: "old"}
	live := &pass{generation: 2, query: "new"}
	o.status = StatusSearching
	o.current = live

	ok := o.update(stale, func(p *pass) { p.regionSearch.Assign([]models.Placemark{{Name: "late"}}) })
	assert.False(t, ok)
	assert.Equal(t, 0, live.regionSearch.Len())
	assert.Equal(t, 0, stale.regionSearch.Len())

	assert.False(t, passAppender{o: o, p: stale}.TryAppend(models.Placemark{Name: "late"}))
	assert.True(t, passAppender{o: o, p: live}.TryAppend(models.Placemark{Name: "fresh"}))
	assert.Equal(t, 1, live.postalAddress.Len())
}

func TestOrchestrator_UsesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	seen := make(chan any, 1)
	fake := &fakeSources{
		address: func(ctx context.Context, _ string) ([]models.Placemark, error) {
			seen <- ctx.Value(key{})
			return nil, nil
		},
	}
	o := NewOrchestrator(fake.sources(), nil, WithContext(ctx))

	o.Submit("q")
	waitIdle(t, o)

	assert.Equal(t, "marker", <-seen)
}
