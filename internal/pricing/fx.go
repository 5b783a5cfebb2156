package pricing

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
