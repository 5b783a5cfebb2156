package stock

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
