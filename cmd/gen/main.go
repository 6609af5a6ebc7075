package main

import (
	"techmarket/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates typed query helpers for the relational dataset tables.
func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/relational/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.All()...)

	g.Execute()
}
