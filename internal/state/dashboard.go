package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"covidtracker/internal/models"
)

// ErrSuperseded is returned when a response arrived after a newer request
// for the same field was issued; the newer request owns the state.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrUnknownRegion is returned for a code missing from the loaded country list.
var ErrUnknownRegion = errors.New("unknown region")

// Fetcher is the upstream API as the dashboard needs it.
type Fetcher interface {
	FetchGlobalSummary(ctx context.Context) (models.Summary, error)
	FetchCountryList(ctx context.Context) ([]models.CountryRecord, error)
	FetchCountrySummary(ctx context.Context, code string) (models.Summary, error)
	FetchHistorical(ctx context.Context, days int) (models.Timeline, error)
}

type Dashboard struct {
	store       *Store
	client      Fetcher
	historyDays int
	log         *zap.Logger
}

func NewDashboard(client Fetcher, store *Store, historyDays int, log *zap.Logger) *Dashboard {
	if store == nil {
		store = NewStore()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if historyDays <= 0 {
		historyDays = 120
	}
	return &Dashboard{store: store, client: client, historyDays: historyDays, log: log}
}

func (d *Dashboard) Store() *Store { return d.store }

// Load runs the initial fetches concurrently: the worldwide summary, the
// country list and the worldwide history. Each failure is recorded on its
// own field; the returned error joins all of them. A fetch overtaken by a
// newer request for its field is not a failure.
func (d *Dashboard) Load(ctx context.Context) error {
	loads := []func(context.Context) error{
		func(ctx context.Context) error { return d.SelectRegion(ctx, models.WorldwideCode) },
		d.RefreshCountries,
		d.RefreshHistory,
	}

	var g errgroup.Group
	errs := make([]error, len(loads))
	for i, load := range loads {
		g.Go(func() error {
			err := load(ctx)
			if err != nil && !errors.Is(err, ErrSuperseded) {
				errs[i] = err
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}

// SelectRegion fetches the summary for code ("worldwide" or an ISO code)
// and blocks until it lands in the state. Once the country list is loaded,
// codes not in it are rejected without a fetch. On failure the previous summary,
// selection and viewport stay in place and the error is returned.
func (d *Dashboard) SelectRegion(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("region code is required")
	}
	if code != models.WorldwideCode {
		if countries := d.store.Snapshot().Countries; countries != nil {
			if _, ok := countries.Lookup(code); !ok {
				return fmt.Errorf("select region %s: %w", code, ErrUnknownRegion)
			}
		}
	}

	seq := d.store.Issue(FieldSummary, func(seq uint64) Action {
		return SummaryRequested{Seq: seq, Code: code}
	})
	log := d.log.With(zap.String("region", code), zap.Uint64("seq", seq))

	var (
		sum models.Summary
		err error
	)
	if code == models.WorldwideCode {
		sum, err = d.client.FetchGlobalSummary(ctx)
	} else {
		sum, err = d.client.FetchCountrySummary(ctx, code)
	}

	if err != nil {
		if !d.store.Dispatch(SummaryFailed{Seq: seq, Code: code, Err: err}) {
			return ErrSuperseded
		}
		log.Warn("region summary failed", zap.Error(err))
		return fmt.Errorf("select region %s: %w", code, err)
	}
	if !d.store.Dispatch(SummaryLoaded{Seq: seq, Code: code, Summary: sum}) {
		log.Debug("region summary superseded")
		return ErrSuperseded
	}
	log.Info("region selected")
	return nil
}

// SelectMetric changes which figures are highlighted. It never fetches.
func (d *Dashboard) SelectMetric(m models.Metric) error {
	m, err := models.ParseMetric(string(m))
	if err != nil {
		return err
	}
	d.store.Dispatch(MetricSelected{Metric: m})
	return nil
}

func (d *Dashboard) RefreshCountries(ctx context.Context) error {
	seq := d.store.Issue(FieldCountries, func(seq uint64) Action {
		return CountriesRequested{Seq: seq}
	})

	recs, err := d.client.FetchCountryList(ctx)
	if err != nil {
		if !d.store.Dispatch(CountriesFailed{Seq: seq, Err: err}) {
			return ErrSuperseded
		}
		d.log.Warn("country list failed", zap.Error(err))
		return fmt.Errorf("load countries: %w", err)
	}
	if !d.store.Dispatch(CountriesLoaded{Seq: seq, Records: recs}) {
		return ErrSuperseded
	}
	d.log.Info("country list loaded", zap.Int("countries", len(recs)))
	return nil
}

func (d *Dashboard) RefreshHistory(ctx context.Context) error {
	seq := d.store.Issue(FieldHistory, func(seq uint64) Action {
		return HistoryRequested{Seq: seq}
	})

	tl, err := d.client.FetchHistorical(ctx, d.historyDays)
	if err != nil {
		if !d.store.Dispatch(HistoryFailed{Seq: seq, Err: err}) {
			return ErrSuperseded
		}
		d.log.Warn("history failed", zap.Error(err))
		return fmt.Errorf("load history: %w", err)
	}
	if !d.store.Dispatch(HistoryLoaded{Seq: seq, Timeline: tl}) {
		return ErrSuperseded
	}
	return nil
}
