package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles. Flags gate the optional layers
// around the attendance core (caching, digests, transport) so a deploy
// can run with the ledger alone while the rest is rolled out.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// Predefined feature flag names.
const (
	// === Report Features ===
	FeatureReportCache  = "report.cache"  // Redis cache for daily/monthly reports
	FeatureReportExport = "report.export" // CSV exports

	// === Scheduler Features ===
	FeatureSchedulerDigest = "scheduler.daily_digest"      // Evening absence digest
	FeatureSchedulerSweep  = "scheduler.consecutive_sweep" // Back-to-back absence sweep

	// === Roster Features ===
	FeatureRosterTransport = "roster.transport" // Transport record endpoints
	FeatureRosterBackfill  = "roster.backfill"  // Phone back-fill repair
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureReportCache] = &Feature{
		Name:        FeatureReportCache,
		Description: "Cache daily and monthly reports in Redis",
		Enabled:     true,
	}

	ff.features[FeatureReportExport] = &Feature{
		Name:        FeatureReportExport,
		Description: "Write CSV exports for reports",
		Enabled:     true,
	}

	ff.features[FeatureSchedulerDigest] = &Feature{
		Name:        FeatureSchedulerDigest,
		Description: "Export the evening absence digest",
		Enabled:     true,
	}

	ff.features[FeatureSchedulerSweep] = &Feature{
		Name:        FeatureSchedulerSweep,
		Description: "Flag back-to-back absences each morning",
		Enabled:     true,
	}

	ff.features[FeatureRosterTransport] = &Feature{
		Name:        FeatureRosterTransport,
		Description: "Serve transport record endpoints",
		Enabled:     true,
	}

	ff.features[FeatureRosterBackfill] = &Feature{
		Name:        FeatureRosterBackfill,
		Description: "Repair denormalized phones across stores",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_REPORT_CACHE=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "report.cache" -> "FEATURE_REPORT_CACHE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	return true
}

// EnableFeature enables a feature. Thread-safe for live updates.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
