package hlsl_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/osllang/osl"
	"github.com/osllang/osl/hlsl"
)

const fragmentSource = `
struct VertexOutput {
	[[position]] position:float4;
	[[texture_coordinates]] uv:float2;
}

extern albedo:float4;

[[fragment]] function main(input:VertexOutput):float4 {
	var result:float4 = albedo * input.position;
	return result;
}
`

func TestBackend_Output_Fragment(t *testing.T) {
	ctx, err := osl.Parse(fragmentSource)
	require.NoError(t, err)

	out, err := hlsl.New(ctx, 0, "main").Output(true)
	require.NoError(t, err)

	snaps.MatchSnapshot(t, out)
}
