package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/logging"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/render"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewRouter wires up all routes with the provided Service.
func NewRouter(svc *service.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth(svc))

	r.Get("/ingredients", handleListIngredients(svc))
	r.Post("/ingredients/resolve", handleResolve(svc))
	r.Post("/ingredients/derive", handleDerive(svc))

	r.Get("/tables", handleGetTables(svc))
	r.Post("/tables", handlePostTables(svc))

	return r
}

func handleHealth(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snap := svc.Loaded(); snap != nil {
			w.Header().Set("X-Dataset-ID", snap.ID.String())
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}
}

// --- list ---

func handleListIngredients(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Ingredients(r.Context())
		if err != nil {
			loadFailed(w, err)
			return
		}
		jsonOK(w, items)
	}
}

// --- resolve ---

type resolveRequest struct {
	Name  string   `json:"name"`
	Names []string `json:"names"`
}

func handleResolve(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		names := req.Names
		if req.Name != "" {
			names = append([]string{req.Name}, names...)
		}
		if len(names) == 0 {
			jsonError(w, "name or names is required", http.StatusBadRequest)
			return
		}
		results, err := svc.Resolve(r.Context(), names)
		if err != nil {
			loadFailed(w, err)
			return
		}
		jsonOK(w, results)
	}
}

// --- derive ---

type deriveRequest struct {
	Text string `json:"text"`
}

type deriveResponse struct {
	Ingredients []string `json:"ingredients"`
}

func handleDerive(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deriveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		found, err := svc.DeriveIngredients(r.Context(), req.Text)
		if err != nil {
			loadFailed(w, err)
			return
		}
		jsonOK(w, deriveResponse{Ingredients: found})
	}
}

// --- tables ---

type tablesRequest struct {
	Ingredients []string `json:"ingredients"`
}

func handlePostTables(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tablesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := svc.RenderTables(r.Context(), req.Ingredients)
		if err != nil {
			loadFailed(w, err)
			return
		}
		jsonOK(w, res)
	}
}

func handleGetTables(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format := strings.ToLower(q.Get("format"))
		if format == "" {
			format = "json"
		}
		if format != "json" && format != "html" && format != "xlsx" {
			jsonError(w, "format must be json, html or xlsx", http.StatusBadRequest)
			return
		}

		res, err := svc.RenderTables(r.Context(), q["ingredient"])
		if err != nil {
			if format == "html" {
				slog.Error("render tables", "error", err)
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				render.HTML(w, nil, err) //nolint:errcheck
				return
			}
			loadFailed(w, err)
			return
		}

		switch format {
		case "html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := render.HTML(w, render.Display(res), nil); err != nil {
				slog.Error("write html tables", "error", err)
			}
		case "xlsx":
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="reference-tables.xlsx"`)
			if err := render.XLSX(w, render.Display(res)); err != nil {
				slog.Error("write xlsx tables", "error", err)
			}
		default:
			jsonOK(w, res)
		}
	}
}

// --- helpers ---

func loadFailed(w http.ResponseWriter, err error) {
	var loadErr *service.LoadError
	if errors.As(err, &loadErr) {
		jsonError(w, "reference data unavailable", http.StatusServiceUnavailable, err)
		return
	}
	jsonError(w, "request canceled before reference data loaded", http.StatusServiceUnavailable, err)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonError(w http.ResponseWriter, msg string, status int, errs ...error) {
	if status >= 500 && len(errs) > 0 {
		slog.Error(msg, "status", status, "error", errs[0])
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
