package pipeline

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources, one per pipeline stage.

//go:embed shaders/native.wgsl
var nativeShaderSource string

//go:embed shaders/quad.wgsl
var quadShaderSource string

//go:embed shaders/pull.wgsl
var pullShaderSource string

//go:embed shaders/expand.wgsl
var expandShaderSource string

//go:embed shaders/instanced.wgsl
var instancedShaderSource string

// ShaderStage identifies what kind of GPU stage a shader drives.
type ShaderStage int

const (
	// StageRender is a vertex+fragment pair in a single module.
	StageRender ShaderStage = iota

	// StageCompute is a compute entry point.
	StageCompute
)

// Shader is one WGSL module a pipeline needs on its device.
type Shader struct {
	// Name is a debug label for the module.
	Name string

	// Stage is the stage kind.
	Stage ShaderStage

	// Source is the WGSL source text.
	Source string
}

// Shaders returns the WGSL modules the method's GPU side requires, in the
// order they run. MethodCPU and MethodNative need only a draw module;
// MethodGeometry runs its expansion compute pass first.
func Shaders(m Method) []Shader {
	switch m {
	case MethodNative:
		return []Shader{{Name: "lines-native", Stage: StageRender, Source: nativeShaderSource}}
	case MethodCPU:
		return []Shader{{Name: "lines-quad", Stage: StageRender, Source: quadShaderSource}}
	case MethodGeometry:
		return []Shader{
			{Name: "lines-expand", Stage: StageCompute, Source: expandShaderSource},
			{Name: "lines-quad", Stage: StageRender, Source: quadShaderSource},
		}
	case MethodTexBuffer:
		return []Shader{{Name: "lines-pull", Stage: StageRender, Source: pullShaderSource}}
	case MethodInstanced:
		return []Shader{{Name: "lines-instanced", Stage: StageRender, Source: instancedShaderSource}}
	default:
		return nil
	}
}

// CompileShader compiles WGSL source to SPIR-V words ready for module
// creation on a wgpu device.
func CompileShader(s Shader) ([]uint32, error) {
	spirvBytes, err := naga.Compile(s.Source)
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", s.Name, err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}
