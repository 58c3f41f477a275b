package osl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osllang/osl"
)

const triangleSource = `
function main():float4 {
	return float4(1.0f, 0.0f, 0.0f, 1.0f);
}
`

func TestCompile_GLSL(t *testing.T) {
	out, err := osl.Compile(triangleSource, osl.DialectGLSL, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "#version")
	assert.Contains(t, out, "main")
}

func TestCompile_HLSL(t *testing.T) {
	out, err := osl.Compile(triangleSource, osl.DialectHLSL, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "main")
}

func TestCompile_MSL(t *testing.T) {
	out, err := osl.Compile(triangleSource, osl.DialectMSL, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "metal_stdlib")
}

func TestCompile_UnknownDialect(t *testing.T) {
	_, err := osl.Compile(triangleSource, osl.Dialect("wgsl"), "main")
	assert.Error(t, err)
}

func TestParse_PropagatesFirstError(t *testing.T) {
	_, err := osl.Parse("function main():void { var x:bogus; }")
	require.Error(t, err)
}
