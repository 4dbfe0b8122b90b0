// Package render defines the drawing surface animated nodes paint themselves on.
//
// # Overview
//
// The scenario engine never draws directly. Every visual entity renders onto a
// [Surface], the renderer port supplied by whatever front end is hosting the
// visualization. A Surface offers a small set of primitives:
//
//   - SetColor: current stroke/fill/text color
//   - FillCircle / StrokeCircle: node discs and highlight rings
//   - Text: centered labels with a font size
//   - Arrow: straight arrows between two points
//   - ArcArrow: elliptical arcs with an arrowhead inside a bounding box
//   - Viewport: the visible region, used by the motion model to decide when a
//     node has entered or left the screen
//
// # Implementations
//
// Two surfaces ship with this package:
//
//   - [SVGSurface] accumulates an SVG document, used by the render command and
//     the HTTP frame endpoint.
//   - [Canvas] rasterizes into a braille character grid, used by the
//     interactive terminal player.
//
// The [nodelink] subpackage draws the structural (parent/child) view of a
// host through Graphviz instead of through a Surface.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG produced here using the external
// rsvg-convert tool (from librsvg).
//
// # Coordinates
//
// Coordinates are integer screen units with y growing downwards. Angles are
// in degrees, 0 pointing east and growing counter-clockwise as seen on screen.
//
// [nodelink]: github.com/matzehuels/algoviz/pkg/render/nodelink
package render
