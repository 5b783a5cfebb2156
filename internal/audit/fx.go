package audit

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
