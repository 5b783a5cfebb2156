package cashcut

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cashcut.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
