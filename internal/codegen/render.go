package codegen

import (
	"os"
	"path"

	"github.com/hanpama/gqlshape/internal/hostlang"
)

const fileHeader = "Generated by gqlshape. DO NOT EDIT."

// Render writes the generated compilation units under outDir: one file per
// operation plus a shared fragments file when the document declares any.
func Render(out *Output, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for _, unit := range out.Operations {
		fp := path.Join(outDir, unit.Name+".gqlshape")
		if err := os.WriteFile(fp, []byte(hostlang.RenderFile(fileHeader, unit.Decls)), 0644); err != nil {
			return err
		}
	}
	if len(out.FragmentDecls) > 0 {
		fp := path.Join(outDir, "fragments.gqlshape")
		if err := os.WriteFile(fp, []byte(hostlang.RenderFile(fileHeader, out.FragmentDecls)), 0644); err != nil {
			return err
		}
	}
	return nil
}
