// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// DefaultOverscan is how many extra rows are computed above and below the
// visible range so scrolling never exposes an unrendered row.
const DefaultOverscan = 10

// Windower maps a list of N items to the bounded subset of indices that
// intersect the current viewport. Total height starts as N × the row
// height estimate and is corrected incrementally as real row heights are
// measured, so render cost stays independent of list length.
type Windower struct {
	estimate int
	overscan int
	measured map[int]int
}

// Range is a half-open visible index range [Start, End) plus the absolute
// offset of the first visible row.
type Range struct {
	Start       int
	End         int
	StartOffset int
}

// NewWindower creates a windower with the given row height estimate.
// Non-positive estimates are treated as a single unit of height; a
// negative overscan falls back to DefaultOverscan.
func NewWindower(estimate, overscan int) *Windower {
	if estimate <= 0 {
		estimate = 1
	}
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	return &Windower{
		estimate: estimate,
		overscan: overscan,
		measured: make(map[int]int),
	}
}

// SetMeasured records the real rendered height of row i, replacing the
// estimate for all subsequent offset and total-height computations.
func (w *Windower) SetMeasured(i, height int) {
	if i < 0 || height <= 0 {
		return
	}
	w.measured[i] = height
}

// Reset discards all measured heights. Call when the underlying list is
// replaced (filter change), since indices no longer refer to the same rows.
func (w *Windower) Reset() {
	w.measured = make(map[int]int)
}

// HeightOf returns the effective height of row i.
func (w *Windower) HeightOf(i int) int {
	if h, ok := w.measured[i]; ok {
		return h
	}
	return w.estimate
}

// TotalHeight returns the scrollable height for n rows.
func (w *Windower) TotalHeight(n int) int {
	total := n * w.estimate
	for i, h := range w.measured {
		if i < n {
			total += h - w.estimate
		}
	}
	return total
}

// OffsetOf returns the absolute vertical offset of row i.
func (w *Windower) OffsetOf(i int) int {
	offset := 0
	for row := 0; row < i; row++ {
		offset += w.HeightOf(row)
	}
	return offset
}

// Visible computes the index range intersecting [scroll, scroll+viewport),
// widened by the overscan margin and clamped to [0, n).
func (w *Windower) Visible(n, scroll, viewport int) Range {
	if n <= 0 || viewport <= 0 {
		return Range{}
	}
	if scroll < 0 {
		scroll = 0
	}

	start := 0
	offset := 0
	for start < n && offset+w.HeightOf(start) <= scroll {
		offset += w.HeightOf(start)
		start++
	}

	end := start
	covered := offset
	for end < n && covered < scroll+viewport {
		covered += w.HeightOf(end)
		end++
	}

	start -= w.overscan
	if start < 0 {
		start = 0
	}
	end += w.overscan
	if end > n {
		end = n
	}

	return Range{Start: start, End: end, StartOffset: w.OffsetOf(start)}
}

// MaxScroll returns the largest useful scroll offset for n rows in a
// viewport of the given height.
func (w *Windower) MaxScroll(n, viewport int) int {
	max := w.TotalHeight(n) - viewport
	if max < 0 {
		return 0
	}
	return max
}
