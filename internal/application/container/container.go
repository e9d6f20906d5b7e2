// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/crosstrace-go/internal/application/services"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Analysis Services (stateless singletons)
	SimilarityService *services.SimilarityService
	PatternService    *services.PatternService
	AnomalyService    *services.AnomalyService
	RiskService       *services.RiskService

	// Orchestration Services
	JourneyService     *services.JourneyService
	CorrelationService *services.CorrelationService
	InsightService     *services.InsightService

	// Infrastructure Dependencies
	Logger           *logging.ChanneledLogger
	CacheManager     *manager.Manager
	AlertBroadcaster *messaging.AlertBroadcaster
	EmailService     email.Service
}

// Deps carries the infrastructure pieces assembled during startup. The
// store and source are contracts so local SQL and remote HTTP backends
// wire identically. EmailService may be nil when alert email is not
// configured.
type Deps struct {
	Logger            *logging.ChanneledLogger
	CacheManager      *manager.Manager
	JourneyStore      sessions.JourneyStore
	CorrelationSource sessions.CorrelationSource
	AlertBroadcaster  *messaging.AlertBroadcaster
	EmailService      email.Service
}

// NewContainer creates and wires all singleton services
func NewContainer(deps Deps) *Container {
	journeyService := services.NewJourneyService(deps.JourneyStore, deps.CacheManager, deps.Logger)
	correlationService := services.NewCorrelationService(deps.CorrelationSource, deps.CacheManager, deps.Logger)

	patternService := services.NewPatternService()
	anomalyService := services.NewAnomalyService()
	riskService := services.NewRiskService()

	var sinks messaging.FanoutSink
	if deps.AlertBroadcaster != nil {
		sinks = append(sinks, deps.AlertBroadcaster)
	}
	if deps.EmailService != nil && config.AlertEmailTo != "" {
		sinks = append(sinks, messaging.NewEmailSink(deps.EmailService, config.AlertEmailTo, deps.Logger))
	}
	var alertSink services.AlertSink
	if len(sinks) > 0 {
		alertSink = sinks
	}

	insightService := services.NewInsightService(
		journeyService,
		patternService,
		anomalyService,
		riskService,
		deps.CacheManager,
		alertSink,
		deps.Logger,
	)

	return &Container{
		SimilarityService: services.NewSimilarityService(),
		PatternService:    patternService,
		AnomalyService:    anomalyService,
		RiskService:       riskService,

		JourneyService:     journeyService,
		CorrelationService: correlationService,
		InsightService:     insightService,

		Logger:           deps.Logger,
		CacheManager:     deps.CacheManager,
		AlertBroadcaster: deps.AlertBroadcaster,
		EmailService:     deps.EmailService,
	}
}
