// Package pyimport extracts raw import records from Python source.
//
// [Extractor] parses files with the tree-sitter Python grammar and reports
// every import statement in source order as a [module.RawImport]:
//
//	import bar                  -> {Name: "bar"}
//	import sample_g.other as g  -> {Name: "sample_g.other", Alias: "g"}
//	from foo.foo_c import obj_c -> {Qualifier: "foo.foo_c", Name: "obj_c"}
//	from ..sample_e import jkl  -> {Qualifier: "sample_e", Name: "jkl", Level: 2}
//	from sample_f import *      -> {Qualifier: "sample_f", Name: "*"}
//
// Nested imports (inside functions, classes, try blocks) are included.
// Files with syntax errors fail as a whole with a PARSE_ERROR.
//
// [CachedExtractor] wraps an Extractor with a content-addressed cache so
// unchanged files are not parsed again across runs.
package pyimport
