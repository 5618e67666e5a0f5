package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dm "pnlanalyzer/data/models"
	"pnlanalyzer/service/logger"
	sm "pnlanalyzer/service/models"
)

// AnalyzeSymbol fetches the statement (and profile when the provider has one) for symbol
// and runs the analysis. A failed statement fetch aborts before any metric is computed,
// a failed profile fetch only adds a notice.
func (sc *ServiceContext) AnalyzeSymbol(ctx context.Context, symbol string, frequency dm.Frequency) (*sm.AnalysisResponse, error) {
	start := time.Now()

	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	requestId := uuid.NewString()
	ctx, span := logger.StartSpan(ctx, "analyze_symbol")
	defer span.End()

	fields := []zap.Field{zap.String("request_id", requestId), zap.String("symbol", symbol), zap.Stringer("frequency", frequency)}
	logger.Info(ctx, "Received request to analyze symbol", fields...)

	var (
		statement  *dm.Statement
		cached     bool
		profile    *dm.CompanyProfile
		profileErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statement, cached, err = sc.GetStatement(gctx, symbol, frequency)
		return err
	})
	g.Go(func() error {
		// never fails the group, a missing profile is shown as a notice
		profile, profileErr = sc.GetProfile(gctx, symbol)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Error fetching statement", err, append(fields, zap.Duration("time", time.Since(start)))...)
		return nil, err
	}

	logger.Info(ctx, "Fetched statement", append(fields, zap.Bool("cached", cached), zap.Duration("time", time.Since(start)))...)

	response, err := Analyze(symbol, statement, sc.Insights)
	if err != nil {
		logger.Error(ctx, "Error analyzing statement", err, append(fields, zap.Duration("time", time.Since(start)))...)
		return nil, err
	}

	response.RequestId = requestId
	response.Cached = cached
	response.Profile = profile
	if profileErr != nil {
		logger.Warn(ctx, "Company profile unavailable", append(fields, zap.Error(profileErr))...)
		response.Notices = append(response.Notices, "Company profile unavailable: "+sm.UserMessage(profileErr))
	}

	logger.Info(ctx, "Analysis completed", append(fields, zap.Int("insights", len(response.Insights)), zap.Duration("time", time.Since(start)))...)
	return response, nil
}

// Analyze turns a fetched statement into metrics, insights and the summary. It does no I/O.
func Analyze(symbol string, statement *dm.Statement, insights InsightGenerator) (*sm.AnalysisResponse, error) {
	if statement == nil {
		return nil, fmt.Errorf("%w: no statement for %s", sm.ErrInvalidInput, symbol)
	}

	metrics, err := ComputeMetrics(statement.Periods)
	if err != nil {
		return nil, fmt.Errorf("error computing metrics for %s: %w", symbol, err)
	}

	periods := SortPeriods(statement.Periods)

	response := &sm.AnalysisResponse{
		Symbol:    symbol,
		Frequency: statement.Frequency,
		Provider:  statement.Provider,
		Currency:  statement.Currency,
		Periods:   periods,
		Metrics:   metrics,
		Insights:  insights.Generate(metrics),
		Summary:   Summarize(statement.Frequency, periods, metrics),
		Notices:   missingDataNotices(periods),
	}

	return response, nil
}

// missingDataNotices names the gaps that show up as N/A so they are never silent
func missingDataNotices(periods []dm.RawPeriod) []string {
	notices := make([]string, 0)

	noRevenue := 0
	for _, p := range periods {
		if !p.Revenue.Valid || p.Revenue.Float64 == 0 {
			noRevenue++
		}
	}

	if noRevenue > 0 {
		notices = append(notices, fmt.Sprintf("%d of %d periods have no reported revenue, their margins and growth are not available.", noRevenue, len(periods)))
	}

	if len(periods) == 1 {
		notices = append(notices, "Only one period was reported, revenue growth needs at least two.")
	}

	return notices
}
