package main

import (
	"flag"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/milk9111/mandible/logger"
	"github.com/milk9111/mandible/prefabs"
)

func main() {
	outDir := flag.String("out-dir", "schemas", "directory to write the JSON schemas to")
	flag.Parse()

	logger.Init()
	log := logger.For("schema")

	targets := []struct {
		name   string
		schema *jsonschema.Schema
	}{
		{"entity.schema.json", prefabs.EntitySchema()},
		{"effects.schema.json", prefabs.EffectCatalogSchema()},
	}
	for _, target := range targets {
		path := filepath.Join(*outDir, target.name)
		if err := prefabs.WriteSchema(path, target.schema); err != nil {
			logger.Log.Fatalf("failed to write schema: %v", err)
		}
		log.WithField("path", path).Info("schema written")
	}
}
