// Package render groups the output renderers for import graphs.
//
// The [nodelink] subpackage draws the graph as a node-link diagram: a
// Graphviz DOT document with one cluster per package, which it can lay out
// to SVG or PNG through an embedded Graphviz.
package render
