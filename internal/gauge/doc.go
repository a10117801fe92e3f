// Package gauge implements the dashboard's gauge models and their layout engine.
//
// Each model owns a value plus a configuration bound once at setup, and turns
// that state into an ordered list of draw primitives. The primitives are
// platform neutral: the dashboard rasterizes them onto a braille canvas, but
// any surface that can stroke lines and arcs, fill rectangles and wedges, and
// place text can render them.
//
// # Models
//
//	Needle       - Analog dial with major/minor ticks, colored ranges and a needle
//	Capacity     - Ten-segment LED bar lit from the bottom, green at the top row
//	TempOverlay  - Temperature text over a background image chosen by key
//
// # Dial Geometry
//
// Needle gauges sweep 160 degrees of a half circle with a 10 degree dead zone
// at each end. Dial angles start at the left horizontal and grow clockwise over
// the top, so value 0 sits at 10 degrees and the maximum at 170 degrees. A dial
// point at angle a and radius r is
//
//	x = cx + cos(180-a) * r
//	y = cy - sin(a) * r
//
// # Redraw Signaling
//
// Setters that change observable state bump the model's generation and call the
// function registered with OnInvalidate. Writing the value a model already
// holds is a no-op, so a steady stream of identical samples never forces a
// redraw.
//
// Models are not safe for concurrent use. The dashboard only touches them from
// its update loop.
package gauge
