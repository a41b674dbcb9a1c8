// Package interact maps pointer input back onto a solved relationship graph.
//
// [HitTest] finds the node under a pointer. Clicks use a 12px tolerance and
// hovers a 10px one, so selecting is easier than triggering a tooltip. When
// several nodes are in range the first in layout order wins, not the
// nearest.
//
// [View] ties layout, painting and hit-testing to an event source. Every
// [View.Update] solves and paints a fresh layout, creates a new tooltip, and
// swaps in exactly one click and one pointer-move listener; [View.Close]
// removes them. Pointer events never trigger a new layout.
package interact
