// Command schemagen writes the JSON schema of the gcm configuration file.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/gcm/pkg/config"
)

var outFile = flag.String("o", "config.schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	jsData, err := config.Schema()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
