package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"trackmyfin/internal/core"
	"trackmyfin/internal/export"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseFilterQuery builds a filter from query parameters: from, to,
// type, categories (comma-separated IDs), min and max (decimal amounts).
func parseFilterQuery(r *http.Request) (export.FilterSpec, error) {
	var spec export.FilterSpec
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return spec, err
		}
		spec.DateFrom = &d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return spec, err
		}
		spec.DateTo = &d
	}

	spec.Type = strings.TrimSpace(q.Get("type"))

	if v := strings.TrimSpace(q.Get("categories")); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return spec, err
			}
			spec.CategoryIDs = append(spec.CategoryIDs, id)
		}
	}

	if v := strings.TrimSpace(q.Get("min")); v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			return spec, err
		}
		spec.MinAmount = &m
	}
	if v := strings.TrimSpace(q.Get("max")); v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			return spec, err
		}
		spec.MaxAmount = &m
	}

	return spec, nil
}
