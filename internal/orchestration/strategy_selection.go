package orchestration

import (
	"github.com/agbru/primepipe/internal/config"
	"github.com/agbru/primepipe/internal/strategy"
)

// GetStrategiesToRun resolves a -strategy value. "all" selects every
// registered strategy in name order; an unknown name yields nil.
func GetStrategiesToRun(name string, factory strategy.Factory) []strategy.Strategy {
	if name == config.AllStrategies {
		return factory.GetAll()
	}
	if s, err := factory.Get(name); err == nil {
		return []strategy.Strategy{s}
	}
	return nil
}
