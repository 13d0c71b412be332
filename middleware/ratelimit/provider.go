package ratelimit

import (
	"go.uber.org/fx"
)

func ProvideStore() Store {
	return NewMemoryStore()
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
)
