// Package scenarios exposes the scenario metrics engine over HTTP.
//
//	POST /api/scenarios/tabular?current=<id>   tabular export in the body
//	POST /api/scenarios/compare                {"names": [...]}
//	GET  /api/scenarios/{name}
//
// Every endpoint answers JSON; ?format=csv switches list responses to CSV.
package scenarios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kilianp07/routekpi/core/aggregate"
	"github.com/kilianp07/routekpi/core/compare"
	"github.com/kilianp07/routekpi/core/model"
	"github.com/kilianp07/routekpi/core/resilience"
	"github.com/kilianp07/routekpi/core/tabular"
	"github.com/kilianp07/routekpi/pkg/export"
)

// Resolver is the part of resilience.Resolver the handlers use.
type Resolver interface {
	Resolve(ctx context.Context, name string) resilience.Result
	ResolveBatch(ctx context.Context, names []string) (resilience.Batch, error)
}

// TabularResponse is the body of the tabular endpoint.
type TabularResponse struct {
	Fields    []string                `json:"fields"`
	Scenarios []model.ScenarioMetrics `json:"scenarios"`
}

// CompareRequest is the body accepted by the compare endpoint.
type CompareRequest struct {
	Names []string `json:"names"`
}

// CompareResponse is the body of the compare endpoint. Extrema is null for
// fewer than two resolved scenarios.
type CompareResponse struct {
	BatchID   string                     `json:"batch_id"`
	Scenarios []model.DetailedMetrics    `json:"scenarios"`
	Extrema   *model.ComparisonExtrema   `json:"extrema"`
	Badges    map[string][]compare.Badge `json:"badges"`
	Dropped   []string                   `json:"dropped"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewTabularHandler aggregates a tabular export posted as the request body.
// The current query parameter overrides defaultCurrent.
func NewTabularHandler(defaultCurrent string, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		current := defaultCurrent
		if q := r.URL.Query(); q.Has("current") {
			current = q.Get("current")
		}
		table := tabular.Parse(string(data))
		metrics := aggregate.Aggregate(table.Records, current)
		if wantsCSV(r) {
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteScenarioCSV(w, metrics); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, TabularResponse{Fields: table.Fields, Scenarios: metrics})
	})
}

// NewCompareHandler resolves a batch of scenario names.
func NewCompareHandler(res Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		names := resilience.CleanNames(req.Names)
		if len(names) == 0 {
			writeError(w, http.StatusBadRequest, errors.New("names must contain at least one scenario"))
			return
		}
		b, err := res.ResolveBatch(r.Context(), names)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		if wantsCSV(r) {
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteDetailedCSV(w, b.Scenarios); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, NewCompareResponse(b))
	})
}

// NewCompareResponse builds the compare body for b. Badges are keyed by
// requested name, which is unique once names are cleaned.
func NewCompareResponse(b resilience.Batch) CompareResponse {
	out := CompareResponse{
		BatchID:   b.ID,
		Scenarios: b.Scenarios,
		Extrema:   b.Extrema,
		Badges:    map[string][]compare.Badge{},
		Dropped:   []string{},
	}
	var badges [][]compare.Badge
	if b.Extrema != nil {
		badges = compare.Badges(b.Scenarios, *b.Extrema)
	}
	i := 0
	for _, res := range b.Results {
		if !res.OK {
			out.Dropped = append(out.Dropped, res.Name)
			continue
		}
		if i < len(badges) && len(badges[i]) > 0 {
			out.Badges[res.Name] = badges[i]
		}
		i++
	}
	return out
}

// NewScenarioHandler resolves the scenario named by the {name} path value.
func NewScenarioHandler(res Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimSpace(r.PathValue("name"))
		if name == "" {
			writeError(w, http.StatusBadRequest, errors.New("scenario name is required"))
			return
		}
		result := res.Resolve(r.Context(), name)
		if !result.OK {
			writeError(w, http.StatusBadGateway, fmt.Errorf("%w: %s (%s)", resilience.ErrUnresolvable, name, result.Reason))
			return
		}
		writeJSON(w, http.StatusOK, result.Metrics)
	})
}

// NewRouter mounts every scenario endpoint on a new ServeMux.
func NewRouter(res Resolver, defaultCurrent string, maxBody int64) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /api/scenarios/tabular", NewTabularHandler(defaultCurrent, maxBody))
	mux.Handle("POST /api/scenarios/compare", NewCompareHandler(res))
	mux.Handle("GET /api/scenarios/{name}", NewScenarioHandler(res))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func wantsCSV(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "csv")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
