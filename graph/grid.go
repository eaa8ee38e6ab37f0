package graph

// BuildGrid constructs the reference rows×cols traffic grid used by spec
// §8 end-to-end scenario 3 (and generalized for scenario 4's 4×4 graph):
// the four corners are streets, every other boundary cell is an IoNode,
// and every interior cell is a Crossing — the same cell classification as
// original_source/simulator/src/build_grid.rs. Interior crossings are
// wired to their cardinal neighbors (another crossing or an edge IoNode)
// by bidirectional pairs of one-lane, 100m streets.
//
// The Rust original leaves each corner a fully disconnected, inert
// Street placeholder with no edges at all — purely a coordinate-grid
// filler. This graph can't reproduce that literally: Freeze rejects any
// Street lacking both a predecessor and a successor (ErrDanglingStreet),
// and Connect refuses a Street as either endpoint, so a corner can never
// be "wired later" the way a Crossing or IoNode can. The adaptation kept
// here is to let the corner's street-ness BE the direct bidirectional
// street pair between its two boundary neighbors — e.g. the (0,0) corner
// of a 3×3 grid becomes the street connecting (0,1) and (1,0) — rather
// than a node of its own. A corner therefore owns no node id (BuildGrid
// reports NoID for it); its two streets are reachable from its neighbors
// like any other street.
//
// rows and cols must each be at least 3, so every corner has two
// distinct non-corner neighbors to bridge.
//
// It returns the Builder (still mutable — callers may keep editing
// before Freeze) and ids[r][c]: an IoNode id on non-corner boundary
// cells, a Crossing id in the interior, and NoID at the four corners.
func BuildGrid(rows, cols int, opts ...BuilderOption) (*Builder, [][]int) {
	if rows < 3 || cols < 3 {
		panic("graph: BuildGrid requires rows >= 3 and cols >= 3")
	}
	b := NewBuilder(opts...)

	ids := make([][]int, rows)
	for r := 0; r < rows; r++ {
		ids[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			switch {
			case isCorner(r, c, rows, cols):
				ids[r][c] = NoID
			case isBoundary(r, c, rows, cols):
				ids[r][c] = b.AddNode(KindIoNode)
			default:
				ids[r][c] = b.AddNode(KindCrossing)
			}
		}
	}

	// East-West pairs between adjacent non-corner cells.
	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			if ids[r][c] != NoID && ids[r][c+1] != NoID {
				connectPair(b, ids[r][c], East, ids[r][c+1], West, 1)
			}
		}
	}
	// North-South pairs. Row r+1 lies to the South of row r.
	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			if ids[r][c] != NoID && ids[r+1][c] != NoID {
				connectPair(b, ids[r][c], South, ids[r+1][c], North, 1)
			}
		}
	}

	// Corners: bridge the two boundary neighbors directly, standing in
	// for the corner's own street (see doc comment above).
	for _, corner := range [][2]int{{0, 0}, {0, cols - 1}, {rows - 1, 0}, {rows - 1, cols - 1}} {
		r, c := corner[0], corner[1]
		hc := c + 1
		if c != 0 {
			hc = c - 1
		}
		vr := r + 1
		if r != 0 {
			vr = r - 1
		}
		connectPair(b, ids[r][hc], East, ids[vr][c], West, 1)
	}

	return b, ids
}

func isCorner(r, c, rows, cols int) bool {
	return (r == 0 || r == rows-1) && (c == 0 || c == cols-1)
}

func isBoundary(r, c, rows, cols int) bool {
	return r == 0 || r == rows-1 || c == 0 || c == cols-1
}

// connectPair wires a bidirectional street pair between two nodes meeting
// on directions (aDir at a, the opposite side at b). Direction is ignored
// on IoNode endpoints (their edge lists are unbounded), so callers
// bridging two IoNodes may pass any opposite pair.
func connectPair(b *Builder, aID int, aDir Direction, bID int, bDir Direction, lanes int) {
	_, _ = b.Connect(aID, aDir, bID, bDir, lanes)
	_, _ = b.Connect(bID, bDir, aID, aDir, lanes)
}
