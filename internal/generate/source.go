package generate

import (
	"fmt"
	"os"

	"github.com/tsgonest/vuemeta/internal/compiler"
	"github.com/tsgonest/vuemeta/internal/sfc"
)

// LoadSource reads an input and returns the unit the checker sees. Inputs are
// decoded (BOM aware) and always served from the overlay. A component becomes
// "<path>.ts" holding its <script> and <script setup> content.
func LoadSource(path string) (compiler.Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return compiler.Source{}, err
	}
	text, err := sfc.Decode(raw)
	if err != nil {
		return compiler.Source{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if !sfc.IsComponent(path) {
		return compiler.Source{FileName: path, Text: string(text), Virtual: true}, nil
	}

	desc, err := sfc.Parse(path, text)
	if err != nil {
		return compiler.Source{}, err
	}
	return compiler.Source{
		FileName: sfc.UnitFileName(path),
		Text:     desc.ScriptText(),
		Virtual:  true,
	}, nil
}
