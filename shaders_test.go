package splot

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
)

func compileShader(t *testing.T, name, src string) {
	t.Helper()
	spirv, err := naga.Compile(src)
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("%s failed to compile: %v", name, err)
	}
	if len(spirv) == 0 {
		t.Fatalf("%s compiled to empty SPIR-V", name)
	}
	if len(spirv)%4 != 0 {
		t.Errorf("%s SPIR-V length %d not word-aligned", name, len(spirv))
	}
}

func TestPointShaderCompiles(t *testing.T) {
	compileShader(t, "point shader", pointShaderWGSL)
}

func TestPickShaderCompiles(t *testing.T) {
	compileShader(t, "pick shader", pickShaderWGSL)
}

func TestLineShaderCompiles(t *testing.T) {
	compileShader(t, "line shader", lineShaderWGSL)
}
