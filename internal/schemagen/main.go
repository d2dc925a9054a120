package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/yaml"
)

const module = "github.com/macropower/clipfix"

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	// Doc comments are keyed by import path, so walk from the module root.
	root, err := moduleRoot()
	if err != nil {
		log.Fatalf("find module root: %v", err)
	}

	err = os.Chdir(root)
	if err != nil {
		log.Fatalf("change directory: %v", err)
	}

	gen := yaml.NewSchemaGenerator(config.NewConfig(), config.SchemaURL, module, "pkg")

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write schema.json file.
	err = os.WriteFile(out, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}

		dir = parent
	}
}
