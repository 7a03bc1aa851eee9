// Package module identifies Python modules and resolves their imports.
//
// # Identity
//
// A [Module] is created from a single ".py" path. Its fully qualified name
// is derived from the directory layout alone: the file stem, prefixed by
// every enclosing directory that contains an __init__.py, stopping at the
// first ancestor that is not a package.
//
//	foo/__init__.py      -> foo.__init__
//	foo/sub/sub_a.py     -> foo.sub.sub_a
//	bar.py               -> bar
//
// # Universe
//
// A [Set] indexes modules by path and by name and records which dotted
// prefixes are packages. [Set.LookupImported] maps an imported dotted name
// to a module by trying, in order:
//
//  1. the name itself
//  2. the name without its last segment (an object imported from a module)
//  3. the package marker of the name, if it is a package
//  4. the package marker of the shortened name, if that is a package
//
// # Resolution
//
// [Set.Resolve] turns the [RawImport] records of one module into the sorted
// names of the modules they refer to. Relative imports are anchored on the
// importing module's FQN. Anything that does not resolve is outside the
// analyzed tree and is silently dropped.
//
// Extraction of raw imports from source text is delegated to an
// [Extractor]; see package pyimport for the tree-sitter implementation.
package module
