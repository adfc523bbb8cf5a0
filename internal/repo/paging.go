package repo

type pageBounds struct {
	start int
	end   int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// paginate turns optional offset/limit into slice bounds over total elements.
func paginate(total int, offset, limit *int) pageBounds {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, total)
	}
	end := total
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, total)
	}
	return pageBounds{start: start, end: end}
}
