// Package packer implements the 2D bin-packing engine that assigns every
// input rectangle to a page, a position, and a uniform scale factor.
//
// # Algorithm
//
// The packer is a deterministic, single-pass shelf/guillotine heuristic.
// Each open page carries a list of free rectangular regions, initialized
// to the page's full usable area. Rectangles are processed in input
// order:
//
//  1. Among all free regions of the current page, the region minimizing
//     leftover area after placement (best-area-fit) is selected. Ties are
//     broken by top-left-to-bottom-right scan order so packing the same
//     input twice yields identical output.
//  2. If the rectangle does not fit a region at its natural size, the
//     largest fitting scale factor is computed as
//     min(regionWidth/rectWidth, regionHeight/rectHeight), capped at 1.0
//     unless upscaling is explicitly enabled.
//  3. Regions that would force the scale below the configured floor are
//     not candidates. If no region qualifies, the page is closed and a
//     fresh page is opened. A rectangle that cannot reach the floor even
//     on a fresh page is placed alone at the maximum scale that fits.
//  4. After a placement the consumed region is guillotine-split into a
//     right strip and a bottom strip; the split axis keeps the larger
//     leftover rectangle whole. Adjacent free regions are merged back
//     together when they reform a rectangle.
//
// The packer never fails on valid input: it always eventually opens a
// new page, and page count is unbounded. An empty input produces an
// empty plan.
//
// # Ownership
//
// The free-region list of the open page is owned exclusively by the
// packer for the page's lifetime. Once a page is closed its assignments
// are immutable, and downstream emission and rendering may process
// closed pages concurrently.
package packer
