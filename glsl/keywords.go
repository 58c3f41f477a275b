package glsl

// reservedWords is GLSL's keyword and built-in-type name set, trimmed to the
// entries an OSL program could plausibly collide with, grounded on the
// teacher's glsl/keywords.go.
var reservedWords = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"sampler2D": true, "sampler2DMS": true, "samplerCube": true,
	"in": true, "out": true, "inout": true, "uniform": true, "varying": true,
	"attribute": true, "const": true, "struct": true, "if": true, "else": true,
	"for": true, "while": true, "do": true, "switch": true, "case": true,
	"default": true, "break": true, "continue": true, "return": true, "discard": true,
	"layout": true, "precision": true, "highp": true, "mediump": true, "lowp": true,
	"gl_Position": true, "gl_FragColor": true, "gl_FragCoord": true,
}
