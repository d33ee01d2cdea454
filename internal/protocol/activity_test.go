// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActivityEvent_Valid(t *testing.T) {
	data := []byte(`{
		"id": "evt-1",
		"sequence": 42,
		"timestamp": 1700000000000,
		"type": "Git",
		"agent": "Bob",
		"action": "opened PR",
		"summary": "opened a pull request",
		"severity": "success"
	}`)

	e, err := DecodeActivityEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", e.ID)
	assert.Equal(t, EventTypeGit, e.Type)
	assert.Equal(t, SeveritySuccess, e.Severity)

	seq, ok := e.Seq()
	require.True(t, ok)
	assert.Equal(t, int64(42), seq)
	assert.Equal(t, int64(1700000000000), e.Time().UnixMilli())
}

func TestDecodeActivityEvent_SeverityDefaultsToInfo(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing", `{"id":"e1","timestamp":1,"type":"Chat","agent":"a"}`},
		{"unknown", `{"id":"e1","timestamp":1,"type":"Chat","agent":"a","severity":"catastrophic"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := DecodeActivityEvent([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, SeverityInfo, e.Severity)
		})
	}
}

func TestDecodeActivityEvent_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing id", `{"timestamp":1700000000000,"type":"Chat","agent":"a"}`},
		{"missing timestamp", `{"id":"e1","type":"Chat","agent":"a"}`},
		{"unknown type", `{"id":"e1","timestamp":1,"type":"Telemetry","agent":"a"}`},
		{"missing type", `{"id":"e1","timestamp":1,"agent":"a"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeActivityEvent([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestDecodeActivityEvent_LegacyEventWithoutSequence(t *testing.T) {
	e, err := DecodeActivityEvent([]byte(`{"id":"e1","timestamp":1,"type":"State","agent":"a"}`))
	require.NoError(t, err)

	_, ok := e.Seq()
	assert.False(t, ok)
}
