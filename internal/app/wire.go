//go:build wireinject
// +build wireinject

package app

import (
	"github.com/carzone/server/internal/shared/config"
	"github.com/google/wire"
)

// InitializeDependencies builds the full dependency graph.
// Run `mage wire` to regenerate wire_gen.go after changing providers.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		InfraSet,
		RepositorySet,
		AdapterSet,
		DomainSet,
		HandlerSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
