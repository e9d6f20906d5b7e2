// Package logging provides structured logging channels for CrossTrace
// operations, one slog logger per engine concern.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Engine channels
	ChannelCorrelation Channel = "correlation" // Cross-fingerprint correlation lookups
	ChannelJourney     Channel = "journey"     // Journey fetches and updates
	ChannelInsights    Channel = "insights"    // Pattern/anomaly/risk computation
	ChannelCache       Channel = "cache"       // Cache operations and eviction

	// Infrastructure channels
	ChannelRemote   Channel = "remote"   // Remote session-store and correlation-service calls
	ChannelDatabase Channel = "database" // Local store queries
	ChannelAlert    Channel = "alert"    // High-risk alert delivery

	// Development and debugging channels
	ChannelDebug Channel = "debug" // Debug information
	ChannelTrace Channel = "trace" // Detailed tracing information
)

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
	configMu sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	OutputToFile    bool   `json:"outputToFile"`    // Whether to write logs to files
	OutputToConsole bool   `json:"outputToConsole"` // Whether to write logs to console
	LogDirectory    string `json:"logDirectory"`    // Directory for log files

	JSONFormat    bool `json:"jsonFormat"`    // Use JSON format for structured logging
	IncludeSource bool `json:"includeSource"` // Include source file and line in logs

	DefaultLevel  slog.Level             `json:"defaultLevel"`  // Default log level
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"` // Per-channel log levels
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    true,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		IncludeSource:   false,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level), // Start with empty map to respect DefaultLevel
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	channels := []Channel{
		ChannelSystem, ChannelStartup, ChannelShutdown,
		ChannelCorrelation, ChannelJourney, ChannelInsights, ChannelCache,
		ChannelRemote, ChannelDatabase, ChannelAlert,
		ChannelDebug, ChannelTrace,
	}

	for _, channel := range channels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// createChannelLogger creates a slog.Logger for a specific channel
func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	// Respect DefaultLevel unless explicitly overridden per channel
	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer

	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}

	if cl.config.OutputToFile {
		filename := fmt.Sprintf("%s.log", string(channel))
		path := filepath.Join(cl.config.LogDirectory, filename)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}

		writers = append(writers, file)
	}

	var writer io.Writer
	if len(writers) == 1 {
		writer = writers[0]
	} else if len(writers) > 1 {
		writer = io.MultiWriter(writers...)
	} else {
		writer = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	// Create logger with the base 'channel' attribute.
	logger := slog.New(handler).With(slog.String("channel", string(channel)))

	return logger, nil
}

func (cl *ChanneledLogger) System() *slog.Logger      { return cl.channels[ChannelSystem] }
func (cl *ChanneledLogger) Startup() *slog.Logger     { return cl.channels[ChannelStartup] }
func (cl *ChanneledLogger) Shutdown() *slog.Logger    { return cl.channels[ChannelShutdown] }
func (cl *ChanneledLogger) Correlation() *slog.Logger { return cl.channels[ChannelCorrelation] }
func (cl *ChanneledLogger) Journey() *slog.Logger     { return cl.channels[ChannelJourney] }
func (cl *ChanneledLogger) Insights() *slog.Logger    { return cl.channels[ChannelInsights] }
func (cl *ChanneledLogger) Cache() *slog.Logger       { return cl.channels[ChannelCache] }
func (cl *ChanneledLogger) Remote() *slog.Logger      { return cl.channels[ChannelRemote] }
func (cl *ChanneledLogger) Database() *slog.Logger    { return cl.channels[ChannelDatabase] }
func (cl *ChanneledLogger) Alert() *slog.Logger       { return cl.channels[ChannelAlert] }
func (cl *ChanneledLogger) Debug() *slog.Logger       { return cl.channels[ChannelDebug] }
func (cl *ChanneledLogger) Trace() *slog.Logger       { return cl.channels[ChannelTrace] }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	// Fallback to system channel
	return cl.channels[ChannelSystem]
}

// WithOperation returns a logger with operation context
func (cl *ChanneledLogger) WithOperation(channel Channel, operation string) *slog.Logger {
	logger := cl.GetChannel(channel)
	return logger.With(slog.String("operation", operation))
}

// WithFingerprint returns a logger with fingerprint context
func (cl *ChanneledLogger) WithFingerprint(channel Channel, fingerprintID string) *slog.Logger {
	logger := cl.GetChannel(channel)
	return logger.With(slog.String("fingerprintId", fingerprintID))
}

// LogCacheOperation logs cache operations with performance context
func (cl *ChanneledLogger) LogCacheOperation(operation, key string, hit bool, duration time.Duration) {
	logger := cl.Cache().With(
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Bool("hit", hit),
		slog.Duration("duration", duration),
	)

	if hit {
		logger.Debug("Cache hit")
	} else {
		logger.Debug("Cache miss")
	}
}

// LogSlowQuery logs a slow local-store query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration) {
	cl.Database().Warn("Slow query detected",
		slog.String("query", query),
		slog.Duration("duration", duration),
		slog.String("timestamp", time.Now().Format(time.RFC3339)),
	)
}

// SetChannelLevel updates the level for one channel and rebuilds its logger.
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.configMu.Lock()
	cl.config.ChannelLevels[channel] = level
	cl.configMu.Unlock()

	rebuilt, err := cl.createChannelLogger(channel)
	if err != nil {
		return err
	}
	cl.channels[channel] = rebuilt
	return nil
}
