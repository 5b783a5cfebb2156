package tickettype

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tickettype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
