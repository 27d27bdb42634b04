package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/fabworks/nestcut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

type point struct {
	x, y float64
}

// segment is a line between two points, used for chaining loose LINE and
// ARC entities into closed loops.
type segment struct {
	start point
	end   point
}

// loop is an ordered ring of points describing one closed shape.
type loop []point

// ImportDXF imports rectangular blanks from a DXF drawing. Each closed
// shape (LWPOLYLINE, CIRCLE, or chain of connected LINEs and ARCs)
// becomes one Part sized to the shape's bounding box. Thickness and
// grade are not stored in 2D drawings and must be supplied by the
// caller.
func ImportDXF(path string, thickness float64, grade string) ImportResult {
	result := ImportResult{}

	if thickness <= 0 {
		result.Errors = append(result.Errors, "Thickness must be positive for DXF import")
		return result
	}
	if grade == "" {
		result.Errors = append(result.Errors, "Material grade is required for DXF import")
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var loops []loop
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			l := lwPolylineLoop(e)
			if len(l) >= 3 {
				loops = append(loops, l)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			loops = append(loops, circleLoop(e, 64))

		case *entity.Arc:
			pts := arcPoints(e, 32)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{x: e.Start[0], y: e.Start[1]},
				end:   point{x: e.End[0], y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	loops = append(loops, chainSegments(segments, 0.01)...)

	if len(loops) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	partNum := 0
	for _, l := range loops {
		partNum++
		minPt, maxPt := boundingBox(l)
		width := maxPt.x - minPt.x
		height := maxPt.y - minPt.y

		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", width, height))
			continue
		}

		// Bounding-box height runs along the sheet length axis
		part := model.NewPart(fmt.Sprintf("DXF Part %d", partNum), height, width, thickness, grade, 1)
		result.Parts = append(result.Parts, part)
	}

	if len(result.Parts) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No usable shapes found in DXF file")
	}

	return result
}

// lwPolylineLoop converts an LWPOLYLINE to a point ring. Bulged vertices
// are interpolated as arc segments so the bounding box covers the bow.
func lwPolylineLoop(lw *entity.LwPolyline) loop {
	var l loop

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{x: v[0], y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{x: lw.Vertices[nextIdx][0], y: lw.Vertices[nextIdx][1]}
			arc := bulgePoints(current, next, bulge, 32)
			// The next vertex closes the arc on the following iteration
			l = append(l, arc[:len(arc)-1]...)
		} else {
			l = append(l, current)
		}
	}

	return l
}

// bulgePoints interpolates the arc described by two endpoints and a DXF
// bulge factor. The bulge is the tangent of a quarter of the included angle.
func bulgePoints(p1, p2 point, bulge float64, numSegments int) []point {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make([]point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{
			x: cx + radius*math.Cos(angle),
			y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleLoop approximates a circle as a regular polygon.
func circleLoop(c *entity.Circle, numSegments int) loop {
	l := make(loop, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		l[i] = point{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return l
}

// arcPoints converts a DXF ARC entity to a polyline approximation.
func arcPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// chainSegments connects loose segments into closed loops. tolerance is
// the maximum endpoint distance still treated as connected.
func chainSegments(segs []segment, tolerance float64) []loop {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var loops []loop

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		closed := len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance)
		if !closed {
			continue
		}
		loops = append(loops, loop(chain[:len(chain)-1]))
	}

	// Largest loops first for stable part numbering
	sort.Slice(loops, func(i, j int) bool {
		return loopArea(loops[i]) > loopArea(loops[j])
	})

	return loops
}

func pointsClose(a, b point, tolerance float64) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// loopArea computes the absolute polygon area via the shoelace formula.
func loopArea(l loop) float64 {
	n := len(l)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += l[i].x * l[j].y
		area -= l[j].x * l[i].y
	}
	return math.Abs(area) / 2
}

func boundingBox(l loop) (point, point) {
	minPt := point{x: math.Inf(1), y: math.Inf(1)}
	maxPt := point{x: math.Inf(-1), y: math.Inf(-1)}
	for _, p := range l {
		minPt.x = math.Min(minPt.x, p.x)
		minPt.y = math.Min(minPt.y, p.y)
		maxPt.x = math.Max(maxPt.x, p.x)
		maxPt.y = math.Max(maxPt.y, p.y)
	}
	return minPt, maxPt
}
