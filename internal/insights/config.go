package insights

import (
	"fmt"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Default thresholds, all expressed in percent
var (
	DefaultTrendThresholdPercent  = decimal.NewFromInt(5)
	DefaultWarningThreshold       = decimal.NewFromInt(70)
	DefaultCriticalThreshold      = decimal.NewFromInt(90)
	DefaultExceededThreshold      = decimal.NewFromInt(100)
	DefaultConcentrationThreshold = decimal.NewFromInt(40)
)

// Config holds the tunable thresholds of the engine
type Config struct {
	// TrendThresholdPercent is the deadband around zero change inside which
	// spending is reported as stable.
	TrendThresholdPercent decimal.Decimal

	// Budget state boundaries on percent used
	WarningThreshold  decimal.Decimal
	CriticalThreshold decimal.Decimal
	ExceededThreshold decimal.Decimal

	// ConcentrationThreshold is the category share above which a
	// diversification insight is emitted (strictly greater).
	ConcentrationThreshold decimal.Decimal

	// WeekStart is the first day of a weekly window
	WeekStart time.Weekday
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		TrendThresholdPercent:  DefaultTrendThresholdPercent,
		WarningThreshold:       DefaultWarningThreshold,
		CriticalThreshold:      DefaultCriticalThreshold,
		ExceededThreshold:      DefaultExceededThreshold,
		ConcentrationThreshold: DefaultConcentrationThreshold,
		WeekStart:              time.Monday,
	}
}

// Validate checks that thresholds are ordered and within range
func (c Config) Validate() error {
	if c.TrendThresholdPercent.IsNegative() {
		return fmt.Errorf("%w: trend threshold must not be negative", domain.ErrInvalidConfig)
	}
	if !c.WarningThreshold.IsPositive() {
		return fmt.Errorf("%w: warning threshold must be positive", domain.ErrInvalidConfig)
	}
	if c.CriticalThreshold.LessThan(c.WarningThreshold) {
		return fmt.Errorf("%w: critical threshold %s is below warning threshold %s",
			domain.ErrInvalidConfig, c.CriticalThreshold, c.WarningThreshold)
	}
	if c.ExceededThreshold.LessThan(c.CriticalThreshold) {
		return fmt.Errorf("%w: exceeded threshold %s is below critical threshold %s",
			domain.ErrInvalidConfig, c.ExceededThreshold, c.CriticalThreshold)
	}
	if !c.ConcentrationThreshold.IsPositive() || c.ConcentrationThreshold.GreaterThan(hundred) {
		return fmt.Errorf("%w: concentration threshold must be in (0, 100]", domain.ErrInvalidConfig)
	}
	if c.WeekStart < time.Sunday || c.WeekStart > time.Saturday {
		return fmt.Errorf("%w: invalid week start %d", domain.ErrInvalidConfig, c.WeekStart)
	}
	return nil
}
