// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noldarim/pulse/internal/protocol"
)

func TestExportCSV_QuoteDoublingAndISOTimestamp(t *testing.T) {
	seq := int64(7)
	events := []protocol.ActivityEvent{{
		ID:        "e1",
		Sequence:  &seq,
		Timestamp: 1700000000000,
		Type:      protocol.EventTypeGit,
		Agent:     "Bob",
		Action:    `opened PR "x"`,
		Summary:   "desc",
		Severity:  protocol.SeverityWarning,
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, events))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Sequence,Timestamp,Type,Agent,Action,Summary,Severity", lines[0])
	assert.Equal(t, `7,2023-11-14T22:13:20Z,Git,Bob,"opened PR ""x""",desc,warning`, lines[1])
}

func TestExportCSV_LegacyEventHasEmptySequenceCell(t *testing.T) {
	events := []protocol.ActivityEvent{{
		ID:        "e1",
		Timestamp: 1700000000000,
		Type:      protocol.EventTypeChat,
		Agent:     "amy",
		Action:    "said hello",
		Summary:   "greeting",
		Severity:  protocol.SeverityInfo,
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, events))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], ",2023-11-14T22:13:20Z,"))
}

func TestExportJSON_FullFidelityRoundTrip(t *testing.T) {
	seq := int64(3)
	events := []protocol.ActivityEvent{{
		ID:        "e1",
		Sequence:  &seq,
		Timestamp: 1700000000000,
		Type:      protocol.EventTypeWorkflow,
		Agent:     "Brian",
		Action:    "started step",
		Summary:   "pipeline step started",
		Severity:  protocol.SeverityInfo,
		Details: map[string]any{
			"reasoning": "needed a rebuild",
			"files":     []any{"a.go", "b.go"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, events))

	var decoded []protocol.ActivityEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, events, decoded)
}

func TestExportCSV_EmptyListWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))
	assert.Equal(t, "Sequence,Timestamp,Type,Agent,Action,Summary,Severity\n", buf.String())
}
