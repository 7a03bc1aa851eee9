// Package io reads and writes analysis results.
//
// # JSON Format
//
// Results are an array with one object per analyzed module, in module name
// order. Imports are the dotted names of the tracked modules it imports:
//
//	[
//	  {
//	    "module": "foo.foo_a",
//	    "imports": [
//	      "bar",
//	      "foo.foo_b"
//	    ]
//	  }
//	]
//
// This is the output of importdeps --json and the input of importdeps
// render, so analysis and rendering can run as separate steps.
//
// # Text Formats
//
// [WriteText] prints results for humans, [WriteOrder] prints a module
// order one name per line and [WriteCycles] prints cycle edges.
package io
