package hlsl

// reservedWords is HLSL's keyword set, trimmed to the entries an OSL program
// could plausibly collide with, grounded on the teacher's hlsl/keywords.go.
var reservedWords = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"float2": true, "float3": true, "float4": true,
	"float2x2": true, "float3x3": true, "float4x4": true,
	"Texture2D": true, "Texture2DMS": true, "SamplerState": true,
	"in": true, "out": true, "inout": true, "uniform": true, "static": true,
	"cbuffer": true, "struct": true, "if": true, "else": true, "for": true,
	"while": true, "do": true, "switch": true, "case": true, "default": true,
	"break": true, "continue": true, "return": true, "discard": true,
	"row_major": true, "column_major": true, "register": true,
}
