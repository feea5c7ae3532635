package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"address-search/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "address-search/1.0"
	defaultLimit     = 10
)

// HTTPDoer is the subset of *http.Client used by Nominatim.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Nominatim client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RatePerSecond and Burst pace outgoing requests. A request waits for its
	// turn and fails as rate limited only when that turn falls past the
	// context deadline. RatePerSecond <= 0 disables pacing.
	RatePerSecond float64
	Burst         int
	Limit         int
	HTTPClient    HTTPDoer
}

// Nominatim geocodes free-text and structured addresses against an OSM Nominatim server.
type Nominatim struct {
	baseURL   string
	userAgent string
	limit     int
	client    HTTPDoer
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// NewNominatim creates a Nominatim client.
func NewNominatim(cfg Config, logger zerolog.Logger) *Nominatim {
	n := &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		limit:     cfg.Limit,
		client:    cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		logger:    logger,
	}
	if n.baseURL == "" {
		n.baseURL = DefaultBaseURL
	}
	if n.userAgent == "" {
		n.userAgent = DefaultUserAgent
	}
	if n.limit <= 0 {
		n.limit = defaultLimit
	}
	if n.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		n.client = &http.Client{Timeout: timeout}
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return n
}

type nominatimAddress struct {
	Country       string `json:"country"`
	State         string `json:"state"`
	County        string `json:"county"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Hamlet        string `json:"hamlet"`
	Municipality  string `json:"municipality"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	Neighbourhood string `json:"neighbourhood"`
	Quarter       string `json:"quarter"`
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	HouseNumber   string `json:"house_number"`
}

type nominatimPlace struct {
	Lat     string           `json:"lat"`
	Lon     string           `json:"lon"`
	Name    string           `json:"name"`
	Address nominatimAddress `json:"address"`
}

// GeocodeAddress resolves a free-text address.
func (n *Nominatim) GeocodeAddress(ctx context.Context, query string) ([]models.Placemark, error) {
	if query == "" {
		return nil, otherError("address string lookup", models.ErrEmptyQuery)
	}

	params := url.Values{}
	params.Set("q", query)
	return n.search(ctx, params)
}

// GeocodePostalAddress resolves a structured address. Nominatim has no
// sub-locality parameter, so SubLocality is sent as the city when City is empty.
func (n *Nominatim) GeocodePostalAddress(ctx context.Context, address models.PostalAddress) ([]models.Placemark, error) {
	if address.IsEmpty() {
		return nil, otherError("postal address lookup", models.ErrEmptyQuery)
	}

	city := address.City
	if city == "" {
		city = address.SubLocality
	}

	params := url.Values{}
	setIfPresent(params, "street", address.Street)
	setIfPresent(params, "city", city)
	setIfPresent(params, "county", address.SubAdministrativeArea)
	setIfPresent(params, "state", address.State)
	setIfPresent(params, "country", address.Country)
	return n.search(ctx, params)
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func (n *Nominatim) search(ctx context.Context, params url.Values) ([]models.Placemark, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, otherError("request canceled", ctxErr)
		}
		n.logger.Warn().Err(err).Msg("nominatim quota exhausted")
		return nil, rateLimitedError("request quota exceeded")
	}

	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(n.limit))

	reqURL := fmt.Sprintf("%s/search?%s", n.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, otherError("failed to build request", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Msg("nominatim request failed")
		return nil, otherError("request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn().Int("status", resp.StatusCode).Msg("nominatim upstream error")
		return nil, ClassifyHTTPStatus(resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, otherError("failed to decode response", err)
	}
	if len(places) == 0 {
		return nil, otherError("lookup", models.ErrNoResults)
	}

	placemarks := make([]models.Placemark, 0, len(places))
	for _, p := range places {
		placemarks = append(placemarks, p.placemark())
	}
	return placemarks, nil
}

func (p nominatimPlace) placemark() models.Placemark {
	a := p.Address
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)
	return models.Placemark{
		Name:                  p.Name,
		Country:               a.Country,
		AdministrativeArea:    a.State,
		SubAdministrativeArea: a.County,
		Locality:              firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality),
		SubLocality:           firstNonEmpty(a.Suburb, a.CityDistrict, a.Neighbourhood, a.Quarter),
		Thoroughfare:          firstNonEmpty(a.Road, a.Pedestrian),
		SubThoroughfare:       a.HouseNumber,
		Latitude:              lat,
		Longitude:             lon,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
