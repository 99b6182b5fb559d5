package pagebreak

// FlexItem is one child's contribution to a flex distribution pass
// (§4.4 Flex distribution).
type FlexItem struct {
	Basis      float64
	Grow       float64
	Shrink     float64
	MinContent float64
	MinSize    float64 // 0 means no explicit min
	MaxSize    float64 // 0 means no explicit max
}

// Distribute implements §4.4's four-step flex distribution and returns
// each item's final main-axis size, in input order.
func Distribute(mainSize float64, items []FlexItem) []float64 {
	sizes := make([]float64, len(items))
	sum := 0.0
	for i, it := range items {
		sizes[i] = it.Basis
		sum += it.Basis
	}

	pinned := make([]bool, len(items))
	switch {
	case sum < mainSize:
		growSum := 0.0
		for _, it := range items {
			growSum += it.Grow
		}
		if growSum > 0 {
			extra := mainSize - sum
			for i, it := range items {
				if it.Grow > 0 {
					sizes[i] += extra * it.Grow / growSum
				}
			}
		}
	case sum > mainSize:
		shrinkBasisSum := 0.0
		for _, it := range items {
			shrinkBasisSum += it.Shrink * it.Basis
		}
		if shrinkBasisSum > 0 {
			deficit := sum - mainSize
			for i, it := range items {
				weight := it.Shrink * it.Basis
				if weight <= 0 {
					continue
				}
				reduction := deficit * weight / shrinkBasisSum
				floor := it.MinContent
				if sizes[i]-reduction < floor {
					sizes[i] = floor
					pinned[i] = true
				} else {
					sizes[i] -= reduction
				}
			}
		}
	}

	// Clamp by min/max and redistribute any resulting excess/deficit in a
	// single second pass (§4.4 step 4).
	var freeSum, freeGrowSum float64
	adjustedTotal := 0.0
	for i, it := range items {
		if it.MinSize > 0 && sizes[i] < it.MinSize {
			sizes[i] = it.MinSize
			pinned[i] = true
		}
		if it.MaxSize > 0 && sizes[i] > it.MaxSize {
			sizes[i] = it.MaxSize
			pinned[i] = true
		}
		adjustedTotal += sizes[i]
		if !pinned[i] {
			freeSum += sizes[i]
			freeGrowSum += it.Grow
		}
	}
	delta := mainSize - adjustedTotal
	if (delta > 0 && freeGrowSum > 0) || (delta < 0 && freeSum > 0) {
		for i, it := range items {
			if pinned[i] {
				continue
			}
			var share float64
			if freeGrowSum > 0 && delta > 0 {
				share = delta * it.Grow / freeGrowSum
			} else {
				share = delta * sizes[i] / freeSum
			}
			sizes[i] += share
			if it.MinSize > 0 && sizes[i] < it.MinSize {
				sizes[i] = it.MinSize
			}
			if it.MaxSize > 0 && sizes[i] > it.MaxSize {
				sizes[i] = it.MaxSize
			}
		}
	}
	return sizes
}

// WrapLines packs items onto lines greedily by main-axis basis size,
// respecting gap, per §4.4 Flex wrap. Returns index ranges [start, end)
// per line.
func WrapLines(mainSize, gap float64, items []FlexItem) [][2]int {
	if len(items) == 0 {
		return nil
	}
	var lines [][2]int
	start := 0
	used := 0.0
	for i, it := range items {
		w := it.Basis
		addGap := gap
		if i == start {
			addGap = 0
		}
		if start < i && used+addGap+w > mainSize {
			lines = append(lines, [2]int{start, i})
			start = i
			used = w
			continue
		}
		used += addGap + w
	}
	lines = append(lines, [2]int{start, len(items)})
	return lines
}

// ReverseLines reverses line order, used for flex-wrap: wrap-reverse
// (§4.4 Flex wrap). alignContent is not applied to the reversed lines.
func ReverseLines(lines [][2]int) [][2]int {
	out := make([][2]int, len(lines))
	for i, l := range lines {
		out[len(lines)-1-i] = l
	}
	return out
}
