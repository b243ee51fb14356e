package cache

import (
	"go.uber.org/fx"

	"github.com/webitel/dispatch-core/config"
)

// Module provides the ident display-name cache, sized from Config.
var Module = fx.Module("ident-cache",
	fx.Provide(func(store *config.Store) *NameCache {
		return New(store.Current().IdentCacheSize)
	}),
)
