package core

import (
	"fmt"

	"pnlanalyzer/data/cache"
	dm "pnlanalyzer/data/models"
	"pnlanalyzer/service/api"
	av "pnlanalyzer/service/api/alpha_vantage"
	"pnlanalyzer/service/api/yahoo"
	"pnlanalyzer/service/config"
)

type ServiceContext struct {
	Config     *config.Config
	Source     api.StatementSource
	Statements *cache.Cache[*dm.Statement]
	Profiles   *cache.Cache[*dm.CompanyProfile]
	Insights   InsightGenerator
}

// NewServiceContext wires the caches and insight thresholds from cfg around source
func NewServiceContext(cfg *config.Config, source api.StatementSource) *ServiceContext {
	return &ServiceContext{
		Config:     cfg,
		Source:     source,
		Statements: cache.New[*dm.Statement](cfg.Cache.TTL, cfg.Cache.MaxEntries),
		Profiles:   cache.New[*dm.CompanyProfile](cfg.Cache.TTL, cfg.Cache.MaxEntries),
		Insights:   NewInsightGenerator(cfg.Insights),
	}
}

// NewStatementSource returns the provider client named by the configuration
func NewStatementSource(cfg *config.Config) (api.StatementSource, error) {
	switch cfg.Source.Provider {
	case config.ProviderYahoo:
		return yahoo.GetClient(cfg.Source.RequestsPerMinute), nil
	case config.ProviderAlphaVantage:
		return av.GetClient(cfg.Source.ApiKey, cfg.Source.RequestsPerMinute), nil
	default:
		return nil, fmt.Errorf("unknown statement provider %q", cfg.Source.Provider)
	}
}
