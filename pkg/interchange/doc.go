// Package interchange converts canvas nodes to and from the neutral shapes
// used by other systems.
//
// [ExtractNodeData] and [CreateNodesFromData] move plain records in and out
// of a canvas, filling in ids, types, positions and data where a producer
// left them out. [DocumentIntegration] maps records of an external
// document-management system ([DocumentSchema]) onto "document" nodes and
// recovers them again; see package integrations/docsys for sources.
package interchange
