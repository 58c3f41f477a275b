package msl

// reservedWords is MSL's keyword set, trimmed to the entries an OSL program
// could plausibly collide with, grounded on the teacher's msl/backend.go
// reserved-identifier handling.
var reservedWords = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"float2": true, "float3": true, "float4": true,
	"float2x2": true, "float3x3": true, "float4x4": true,
	"texture2d": true, "sampler": true, "metal": true, "using": true,
	"namespace": true, "fragment": true, "vertex": true, "kernel": true,
	"constant": true, "device": true, "thread": true, "threadgroup": true,
	"struct": true, "if": true, "else": true, "for": true, "while": true,
	"do": true, "switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "discard_fragment": true,
}
