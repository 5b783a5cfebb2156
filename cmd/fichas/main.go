package main

import (
	"log"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/migration"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/server"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("snowflake node: %v", err)
	}
	return node
}
