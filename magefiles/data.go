//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Data groups targets that operate on the publication datasets.
type Data mg.Namespace

// defaultDatasets maps store names to the files Init expects under data/.
var defaultDatasets = []struct {
	name, path, key string
}{
	{"universities", "data/universitiesSub.json", "university"},
	{"authors", "data/authorsSub.json", "author"},
}

// Ingest caches the default datasets in the local store.
// Files missing from data/ are reported and skipped.
func (Data) Ingest() error {
	mg.Deps(Build, Init)
	bin := binDir + "/" + binName
	for _, d := range defaultDatasets {
		if _, err := os.Stat(d.path); err != nil {
			fmt.Printf("[data] %s not found, skipping\n", d.path)
			continue
		}
		if err := sh.RunV(bin, "store", "ingest", d.name, d.path, "--key", d.key); err != nil {
			return fmt.Errorf("ingesting %s: %w", d.path, err)
		}
	}
	return nil
}

// Options prints the filter values of the default university dataset.
func (Data) Options() error {
	mg.Deps(Build)
	return sh.RunV(binDir+"/"+binName, "options")
}
