package superpix

import "container/heap"

// snicElement is a candidate (pixel, label) pair ordered by (distance,
// sequence), per spec.md §3 "Priority queue element".
type snicElement struct {
	dist  float64
	seq   uint64
	pixel int32
	label int32
}

// snicQueue is a container/heap min-priority queue over snicElement,
// ordered by distance then insertion sequence (spec.md §4.4).
type snicQueue []snicElement

func (q snicQueue) Len() int { return len(q) }
func (q snicQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q snicQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *snicQueue) Push(x any)        { *q = append(*q, x.(snicElement)) }
func (q *snicQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// runSNIC implements the non-iterative SNIC solver of spec.md §4.4: a
// single pass driven by a min-priority queue, growing each region from
// its seed and folding pixels into an online running mean as they're
// claimed.
func runSNIC(lab *labImage, centers []center, s int, m int) []int32 {
	w, h := lab.W, lab.H
	n := w * h
	mOverSSquared := float64(m) / float64(s)
	mOverSSquared *= mOverSSquared

	labels := make([]int32, n)
	for i := range labels {
		labels[i] = Unset
	}

	var seq uint64
	pq := make(snicQueue, 0, n)
	for ci := range centers {
		x, y := int(centers[ci].X), int(centers[ci].Y)
		pq = append(pq, snicElement{dist: 0, seq: seq, pixel: int32(y*w + x), label: int32(ci)})
		seq++
	}
	heap.Init(&pq)

	dx4 := [4]int{-1, 0, 1, 0}
	dy4 := [4]int{0, -1, 0, 1}

	for pq.Len() > 0 {
		e := heap.Pop(&pq).(snicElement)
		if labels[e.pixel] != Unset {
			continue
		}
		labels[e.pixel] = e.label

		c := &centers[e.label]
		x, y := int(e.pixel)%w, int(e.pixel)/w
		nf := float64(c.n + 1)
		c.L = (c.L*float64(c.n) + lab.L[e.pixel]) / nf
		c.A = (c.A*float64(c.n) + lab.A[e.pixel]) / nf
		c.B = (c.B*float64(c.n) + lab.B[e.pixel]) / nf
		c.X = (c.X*float64(c.n) + float64(x)) / nf
		c.Y = (c.Y*float64(c.n) + float64(y)) / nf
		c.n++

		for d := 0; d < 4; d++ {
			nx, ny := x+dx4[d], y+dy4[d]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			np := int32(ny*w + nx)
			if labels[np] != Unset {
				continue
			}
			d2 := jointDistanceSquared(lab.L[np], lab.A[np], lab.B[np], float64(nx), float64(ny), c, mOverSSquared)
			heap.Push(&pq, snicElement{dist: d2, seq: seq, pixel: np, label: e.label})
			seq++
		}
	}
	return labels
}
