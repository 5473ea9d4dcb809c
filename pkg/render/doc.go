// Package render draws canvas overviews with Graphviz.
//
// [ToDOT] turns a [canvas.Document] into a DOT digraph: every node is a box
// labelled with its type and title, groups become clusters around their
// children, and edges keep their labels. [RenderSVG] lays the graph out and
// returns SVG; [Renderer] adds a result cache in front of it.
//
//	dot := render.ToDOT(doc, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [canvas.Document]: github.com/matzehuels/moodboard/pkg/canvas
package render
