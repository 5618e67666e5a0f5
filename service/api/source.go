package api

import (
	"context"

	dm "pnlanalyzer/data/models"
)

// StatementSource returns the income statement for a ticker, periods oldest first.
// Unknown symbols fail with models.ErrNotFound, provider failures with models.ErrUnavailable.
type StatementSource interface {
	Name() string
	FetchStatement(ctx context.Context, symbol string, frequency dm.Frequency) (*dm.Statement, error)
}

// ProfileSource is implemented by providers that also serve company overview data
type ProfileSource interface {
	FetchProfile(ctx context.Context, symbol string) (*dm.CompanyProfile, error)
}
