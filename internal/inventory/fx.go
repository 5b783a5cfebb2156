package inventory

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
