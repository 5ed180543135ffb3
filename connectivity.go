package superpix

// enforceConnectivity walks pixels in row-major order, flood-fills each
// connected component (4-connected, same original label), and reassigns
// components smaller than minSize to the most recently encountered
// adjacent label (spec.md §4.5). Components with no adjacent label at
// all (surrounded only by unlabeled border) keep their own new label
// rather than being absorbed, per spec.md §3's invariant carve-out.
//
// Returns relabeled output compacted to 0..K'-1.
func enforceConnectivity(w, h int, labels []int32, minSize int) ([]int32, int) {
	n := w * h
	newLabels := make([]int32, n)
	for i := range newLabels {
		newLabels[i] = Unset
	}

	dx4 := [4]int{-1, 0, 1, 0}
	dy4 := [4]int{0, -1, 0, 1}

	queue := make([]int32, 0, 64)
	nextLabel := int32(0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := int32(y*w + x)
			if newLabels[start] != Unset {
				continue
			}
			oldLabel := labels[start]

			adjLabel := int32(-1)
			hasAdj := false
			for d := 0; d < 4; d++ {
				nx, ny := x+dx4[d], y+dy4[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := int32(ny*w + nx)
				if newLabels[ni] != Unset {
					adjLabel = newLabels[ni]
					hasAdj = true
				}
			}

			queue = queue[:0]
			queue = append(queue, start)
			newLabels[start] = nextLabel
			for qi := 0; qi < len(queue); qi++ {
				cur := queue[qi]
				cx, cy := int(cur)%w, int(cur)/w
				for d := 0; d < 4; d++ {
					nx, ny := cx+dx4[d], cy+dy4[d]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := int32(ny*w + nx)
					if newLabels[ni] == Unset && labels[ni] == oldLabel {
						newLabels[ni] = nextLabel
						queue = append(queue, ni)
					}
				}
			}

			if len(queue) < minSize && hasAdj {
				for _, e := range queue {
					newLabels[e] = adjLabel
				}
				continue
			}
			nextLabel++
		}
	}

	return compactLabels(newLabels, int(nextLabel))
}

// compactLabels renumbers labels to a dense 0..K'-1 range, dropping any
// label index with zero members.
func compactLabels(labels []int32, maxLabel int) ([]int32, int) {
	present := make([]bool, maxLabel)
	for _, l := range labels {
		if l >= 0 && int(l) < maxLabel {
			present[l] = true
		}
	}
	remap := make([]int32, maxLabel)
	next := int32(0)
	for i, p := range present {
		if p {
			remap[i] = next
			next++
		}
	}
	out := make([]int32, len(labels))
	for i, l := range labels {
		out[i] = remap[l]
	}
	return out, int(next)
}
