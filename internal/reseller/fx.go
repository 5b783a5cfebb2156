package reseller

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reseller.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
