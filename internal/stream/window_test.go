// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindower_VisibleRangeWithOverscan(t *testing.T) {
	w := NewWindower(2, 3) // 2 lines per row, 3 rows overscan

	// 100 rows, scrolled to row 25 (offset 50), viewport of 20 lines
	// covers rows 25..34, widened by overscan to 22..37.
	r := w.Visible(100, 50, 20)
	assert.Equal(t, 22, r.Start)
	assert.Equal(t, 38, r.End)
	assert.Equal(t, 44, r.StartOffset)
}

func TestWindower_ClampsAtEdges(t *testing.T) {
	w := NewWindower(1, DefaultOverscan)

	top := w.Visible(100, 0, 10)
	assert.Equal(t, 0, top.Start)
	assert.Equal(t, 20, top.End)
	assert.Equal(t, 0, top.StartOffset)

	bottom := w.Visible(100, 95, 10)
	assert.Equal(t, 100, bottom.End)

	empty := w.Visible(0, 0, 10)
	assert.Equal(t, Range{}, empty)

	noViewport := w.Visible(100, 0, 0)
	assert.Equal(t, Range{}, noViewport)
}

func TestWindower_TotalHeightUsesEstimate(t *testing.T) {
	w := NewWindower(3, 0)
	assert.Equal(t, 300, w.TotalHeight(100))
}

func TestWindower_MeasuredHeightsCorrectTotals(t *testing.T) {
	w := NewWindower(2, 0)
	w.SetMeasured(0, 5)
	w.SetMeasured(3, 1)

	// 10 rows: 8 estimated at 2, row 0 at 5, row 3 at 1.
	assert.Equal(t, 16+5+1, w.TotalHeight(10))
	assert.Equal(t, 5, w.OffsetOf(1))
	assert.Equal(t, 5+2+2, w.OffsetOf(3))
	assert.Equal(t, 5+2+2+1, w.OffsetOf(4))

	// Measurements beyond the list length are ignored.
	w.SetMeasured(50, 9)
	assert.Equal(t, 22, w.TotalHeight(10))
}

func TestWindower_MeasuredHeightsShiftVisibleRange(t *testing.T) {
	w := NewWindower(1, 0)
	w.SetMeasured(0, 10)

	// Row 0 alone fills a 10 line viewport at scroll 0.
	r := w.Visible(5, 0, 10)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 1, r.End)

	// Scrolled past row 0, the remaining single-line rows are visible.
	r = w.Visible(5, 10, 10)
	assert.Equal(t, 1, r.Start)
	assert.Equal(t, 5, r.End)
	assert.Equal(t, 10, r.StartOffset)
}

func TestWindower_ResetDiscardsMeasurements(t *testing.T) {
	w := NewWindower(2, 0)
	w.SetMeasured(1, 7)
	w.Reset()
	assert.Equal(t, 20, w.TotalHeight(10))
}

func TestWindower_MaxScroll(t *testing.T) {
	w := NewWindower(2, 0)
	assert.Equal(t, 190, w.MaxScroll(100, 10))
	assert.Equal(t, 0, w.MaxScroll(3, 10))
}

func TestWindower_IgnoresInvalidMeasurements(t *testing.T) {
	w := NewWindower(2, 0)
	w.SetMeasured(-1, 5)
	w.SetMeasured(2, 0)
	w.SetMeasured(3, -4)
	assert.Equal(t, 20, w.TotalHeight(10))
}
