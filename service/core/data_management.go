package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"pnlanalyzer/data/cache"
	dm "pnlanalyzer/data/models"
	"pnlanalyzer/service/api"
	"pnlanalyzer/service/logger"
	sm "pnlanalyzer/service/models"
)

const profileKey = "profile"

// GetStatement returns the statement for symbol from the cache or the source.
// The fetch is bounded by the configured fetch timeout, a timeout is reported as unavailable.
func (sc *ServiceContext) GetStatement(ctx context.Context, symbol string, frequency dm.Frequency) (*dm.Statement, bool, error) {
	key := cache.Key(sc.Source.Name(), symbol, frequency.String())

	statement, hit, err := sc.Statements.GetOrFetch(ctx, key, func(ctx context.Context) (*dm.Statement, error) {
		op := logger.StartOperation(ctx, "fetch_statement",
			attribute.String("provider", sc.Source.Name()),
			attribute.String("symbol", symbol),
			attribute.String("frequency", frequency.String()),
		)

		fetchCtx, cancel := context.WithTimeout(op.Context(), sc.Config.Source.FetchTimeout)
		defer cancel()

		statement, err := sc.Source.FetchStatement(fetchCtx, symbol, frequency)
		err = contextAsUnavailable(err, symbol)
		elapsed := op.End(err)

		if err != nil {
			return nil, err
		}

		logger.Info(op.Context(), "fetched statement",
			zap.String("symbol", symbol),
			zap.Int("periods", len(statement.Periods)),
			zap.Duration("elapsed", elapsed),
		)
		return statement, nil
	})

	return statement, hit, contextAsUnavailable(err, symbol)
}

// GetProfile returns the company profile when the source serves one, nil otherwise
func (sc *ServiceContext) GetProfile(ctx context.Context, symbol string) (*dm.CompanyProfile, error) {
	profiles, ok := sc.Source.(api.ProfileSource)
	if !ok {
		return nil, nil
	}

	key := cache.Key(sc.Source.Name(), symbol, profileKey)
	profile, _, err := sc.Profiles.GetOrFetch(ctx, key, func(ctx context.Context) (*dm.CompanyProfile, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, sc.Config.Source.FetchTimeout)
		defer cancel()

		profile, err := profiles.FetchProfile(fetchCtx, symbol)
		return profile, contextAsUnavailable(err, symbol)
	})

	return profile, contextAsUnavailable(err, symbol)
}

// contextAsUnavailable reports a timed out or abandoned fetch as unavailable
func contextAsUnavailable(err error, symbol string) error {
	switch {
	case err == nil || errors.Is(err, sm.ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: timed out fetching %s: %w", sm.ErrUnavailable, symbol, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: fetching %s was cancelled: %w", sm.ErrUnavailable, symbol, err)
	default:
		return err
	}
}

// normalizeSymbol trims the symbol, everything else is forwarded to the provider as typed
func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", fmt.Errorf("%w: a ticker symbol is required", sm.ErrInvalidInput)
	}
	return symbol, nil
}
