package delivery

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery/service"
	"go.uber.org/fx"
)

var Module = fx.Module("delivery.service",
	fx.Provide(service.New),
)
