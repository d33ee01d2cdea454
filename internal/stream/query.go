// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"net/url"
	"strings"

	"github.com/noldarim/pulse/internal/protocol"
)

// Query parameter keys. These mirror the dashboard's shareable URL format
// so a filter string copied from one session reproduces the same view in
// another.
const (
	queryKeyTypes  = "types"
	queryKeyAgents = "agents"
	queryKeySearch = "search"
	queryKeyWindow = "window"
)

// EncodeQuery serializes a filter into URL query values. Empty constraints
// are omitted; the default window (all) is omitted too.
func EncodeQuery(f Filter) url.Values {
	v := url.Values{}
	if names := f.TypeNames(); len(names) > 0 {
		v.Set(queryKeyTypes, strings.Join(names, ","))
	}
	if names := f.AgentNames(); len(names) > 0 {
		v.Set(queryKeyAgents, strings.Join(names, ","))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		v.Set(queryKeySearch, q)
	}
	if f.Window != "" && f.Window != WindowAll {
		v.Set(queryKeyWindow, string(f.Window))
	}
	return v
}

// EncodeQueryString returns the filter as a canonical query string,
// e.g. "agents=Brian&search=deploy&types=Chat".
func EncodeQueryString(f Filter) string {
	return EncodeQuery(f).Encode()
}

// DecodeQuery parses URL query values back into a filter. Unknown type
// names and unknown windows are dropped leniently rather than failing the
// whole string, so stale shared links still load.
func DecodeQuery(v url.Values) Filter {
	f := NewFilter()

	for _, name := range splitList(v.Get(queryKeyTypes)) {
		t := protocol.EventType(name)
		for _, known := range protocol.EventTypes {
			if t == known {
				f.Types[t] = struct{}{}
				break
			}
		}
	}
	for _, agent := range splitList(v.Get(queryKeyAgents)) {
		f.Agents[agent] = struct{}{}
	}
	f.Search = v.Get(queryKeySearch)

	if w := TimeWindow(v.Get(queryKeyWindow)); w != "" {
		for _, known := range TimeWindows {
			if w == known {
				f.Window = w
				break
			}
		}
	}
	return f
}

// DecodeQueryString parses a raw query string (with or without a leading
// "?") into a filter. Malformed strings yield the default filter.
func DecodeQueryString(raw string) Filter {
	raw = strings.TrimPrefix(raw, "?")
	v, err := url.ParseQuery(raw)
	if err != nil {
		return NewFilter()
	}
	return DecodeQuery(v)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
