package core

import (
	"context"
	"sync"
	"time"

	dm "pnlanalyzer/data/models"
	"pnlanalyzer/service/api"
	"pnlanalyzer/service/config"
	sm "pnlanalyzer/service/models"
)

type fakeSource struct {
	mu        sync.Mutex
	statement *dm.Statement
	err       error
	delay     time.Duration
	calls     int
	symbols   []string
}

func (f *fakeSource) Name() string {
	return "fake"
}

func (f *fakeSource) FetchStatement(ctx context.Context, symbol string, frequency dm.Frequency) (*dm.Statement, error) {
	f.mu.Lock()
	f.calls++
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	if f.err != nil {
		return nil, f.err
	}

	statement := *f.statement
	statement.Symbol = symbol
	statement.Frequency = frequency
	return &statement, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeProfileSource also serves company profiles
type fakeProfileSource struct {
	*fakeSource
	profile    *dm.CompanyProfile
	profileErr error
}

func (f *fakeProfileSource) FetchProfile(ctx context.Context, symbol string) (*dm.CompanyProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func getTestStatement() *dm.Statement {
	return &dm.Statement{
		Currency: "INR",
		Provider: "fake",
		Periods: []dm.RawPeriod{
			// newest first, the way providers list them
			period(2022, v(120), v(60), v(30), v(24)),
			period(2021, v(100), v(55), v(20), v(10)),
		},
	}
}

func getTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Source.FetchTimeout = time.Second
	cfg.Examples = []sm.ExampleTicker{{Name: "TCS", Symbol: "TCS.NS"}}
	return cfg
}

func getTestServiceContext(source api.StatementSource) *ServiceContext {
	return NewServiceContext(getTestConfig(), source)
}
