// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/noldarim/pulse/internal/protocol"
)

// csvHeader defines the CSV export columns, in order.
var csvHeader = []string{"Sequence", "Timestamp", "Type", "Agent", "Action", "Summary", "Severity"}

// ExportJSON writes the filtered event list as an indented JSON document
// with full fidelity, including details payloads.
func ExportJSON(w io.Writer, events []protocol.ActivityEvent) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("failed to encode events as JSON: %w", err)
	}
	return nil
}

// ExportCSV writes the filtered event list as RFC 4180 CSV. Timestamps are
// rendered as ISO-8601 in UTC; double quotes inside fields are escaped by
// doubling. Events without a sequence number render an empty Sequence cell.
func ExportCSV(w io.Writer, events []protocol.ActivityEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range events {
		seq := ""
		if n, ok := e.Seq(); ok {
			seq = strconv.FormatInt(n, 10)
		}
		row := []string{
			seq,
			e.Time().UTC().Format(time.RFC3339),
			string(e.Type),
			e.Agent,
			e.Action,
			e.Summary,
			string(e.Severity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
