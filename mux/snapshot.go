package mux

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotFormat selects the encoding of the cached route table.
type SnapshotFormat string

const (
	FormatJSON    SnapshotFormat = "json"
	FormatMsgpack SnapshotFormat = "msgpack"
)

// snapshotVersion is bumped whenever the cached table layout changes, so
// that a table written by an older build is rejected and rebuilt.
const snapshotVersion = 1

type routeRecord struct {
	Method             string   `json:"method" msgpack:"method"`
	Pattern            string   `json:"pattern" msgpack:"pattern"`
	ContentTypes       []string `json:"content_types" msgpack:"content_types"`
	AuthorizationRules []string `json:"authorization_rules,omitempty" msgpack:"authorization_rules,omitempty"`
	Handler            string   `json:"handler,omitempty" msgpack:"handler,omitempty"`
}

type tableSnapshot struct {
	Version int           `json:"version" msgpack:"version"`
	Routes  []routeRecord `json:"routes" msgpack:"routes"`
}

func (f SnapshotFormat) marshal(v any) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return json.Marshal(v)
	case FormatMsgpack:
		return msgpack.Marshal(v)
	default:
		return nil, fmt.Errorf("mux: unknown snapshot format %q", string(f))
	}
}

func (f SnapshotFormat) unmarshal(data []byte, v any) error {
	switch f {
	case FormatJSON, "":
		return json.Unmarshal(data, v)
	case FormatMsgpack:
		return msgpack.Unmarshal(data, v)
	default:
		return fmt.Errorf("mux: unknown snapshot format %q", string(f))
	}
}

// encodeTable serializes a table. Handlers are stored by name.
func encodeTable(table map[string][]*RouteDefinition, format SnapshotFormat) ([]byte, error) {
	methods := make([]string, 0, len(table))
	for method := range table {
		methods = append(methods, method)
	}
	slices.Sort(methods)

	snap := tableSnapshot{Version: snapshotVersion, Routes: []routeRecord{}}
	for _, method := range methods {
		for _, d := range table[method] {
			rec := routeRecord{
				Method:             method,
				Pattern:            d.Route(),
				ContentTypes:       d.AcceptedContentTypes(),
				AuthorizationRules: d.AuthorizationRules(),
			}
			if d.callback != nil {
				name, ok := HandlerNameOf(d.callback)
				if !ok {
					return nil, fmt.Errorf("%w: %s %s", ErrHandlerNotNamed, method, d.Route())
				}
				rec.Handler = name
			}
			snap.Routes = append(snap.Routes, rec)
		}
	}
	return format.marshal(snap)
}

// decodeTable rebuilds a table from its serialized form.
func decodeTable(data []byte, format SnapshotFormat, resolver HandlerResolver) (map[string]map[string]*RouteDefinition, error) {
	var snap tableSnapshot
	if err := format.unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("mux: decode cached routes: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("mux: cached routes have version %d, want %d", snap.Version, snapshotVersion)
	}

	routes := make(map[string]map[string]*RouteDefinition)
	for _, rec := range snap.Routes {
		method, err := normalizeMethod(rec.Method)
		if err != nil {
			return nil, err
		}
		d, err := NewRouteDefinition(rec.Pattern)
		if err != nil {
			return nil, err
		}
		d.contentTypes = rec.ContentTypes
		d.authorizationRules = rec.AuthorizationRules

		if rec.Handler != "" {
			var h Handler
			ok := false
			if resolver != nil {
				h, ok = resolver.ResolveHandler(rec.Handler)
			}
			if !ok {
				return nil, fmt.Errorf("%w: %q for %s %s", ErrUnresolvedHandler, rec.Handler, method, rec.Pattern)
			}
			d.callback = h
		}

		if routes[method] == nil {
			routes[method] = make(map[string]*RouteDefinition)
		}
		routes[method][d.Route()] = d
	}
	return routes, nil
}
