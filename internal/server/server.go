// Package server exposes the projection engine to the external UI
// collaborator over HTTP. It is the only layer that touches the scenario
// store or the network; everything it serves is computed fresh from the
// request payload.
package server

import (
	"errors"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/compare"
	"github.com/councilmodel/mtfp/internal/config"
	"github.com/councilmodel/mtfp/internal/domain"
	"github.com/councilmodel/mtfp/internal/output"
	"github.com/councilmodel/mtfp/internal/store"
)

// Server routes API requests to the calculation core.
type Server struct {
	engine   *calculation.Engine
	comparer *compare.Engine
	store    store.ScenarioStore
	logger   *zap.Logger
}

// New creates a server. A nil logger falls back to a no-op logger.
func New(engine *calculation.Engine, scenarios store.ScenarioStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		comparer: compare.NewEngine(engine),
		store:    scenarios,
		logger:   logger,
	}
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("mtfp api listening", zap.String("addr", addr))
	return fasthttp.ListenAndServe(addr, s.Handler)
}

type errorResponse struct {
	Error string `json:"error"`
}

type projectResponse struct {
	Rows              []domain.ProjectionRow                 `json:"rows"`
	Waterfall         []domain.WaterfallEntry                `json:"waterfall"`
	ServiceBreakdown  map[string][]domain.ServiceYearImpact  `json:"serviceBreakdown"`
	ReservesExhausted bool                                   `json:"reservesExhausted"`
	ExhaustionYear    int                                    `json:"exhaustionYear,omitempty"`
}

type breakEvenResponse struct {
	CouncilTaxIncrease *string `json:"councilTaxIncrease"` // decimal string, null when unsolvable
	AdditionalSavings  string  `json:"additionalSavings"`
}

type stressRequest struct {
	Scenario *domain.Scenario        `json:"scenario"`
	Params   domain.StressParameters `json:"params"`
}

type exportRequest struct {
	Scenario        *domain.Scenario        `json:"scenario"`
	IncludeMetadata bool                    `json:"includeMetadata"`
	GovernanceNotes []output.GovernanceNote `json:"governanceNotes,omitempty"`
	Stress          *domain.StressSummary   `json:"stress,omitempty"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type compareRequest struct {
	Scenario  *domain.Scenario `json:"scenario"`
	Templates []string         `json:"templates"`
}

// Handler is the fasthttp entry point.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())
	s.logger.Debug("request", zap.String("method", method), zap.String("path", path))

	switch {
	case path == "/api/project" && method == fasthttp.MethodPost:
		s.handleProject(ctx)
	case path == "/api/sensitivity" && method == fasthttp.MethodPost:
		s.handleSensitivity(ctx)
	case path == "/api/breakeven" && method == fasthttp.MethodPost:
		s.handleBreakEven(ctx)
	case path == "/api/stress" && method == fasthttp.MethodPost:
		s.handleStress(ctx)
	case path == "/api/compare" && method == fasthttp.MethodPost:
		s.handleCompare(ctx)
	case path == "/api/export/csv" && method == fasthttp.MethodPost:
		s.handleExportCSV(ctx)
	case path == "/api/export/workbook" && method == fasthttp.MethodPost:
		s.handleExportWorkbook(ctx)
	case path == "/api/validate" && method == fasthttp.MethodPost:
		s.handleValidate(ctx)
	case path == "/api/scenarios" && method == fasthttp.MethodGet:
		s.handleListScenarios(ctx)
	case strings.HasPrefix(path, "/api/scenarios/"):
		s.handleScenarioByName(ctx, strings.TrimPrefix(path, "/api/scenarios/"), method)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "unknown route")
	}
}

func (s *Server) decodeScenario(ctx *fasthttp.RequestCtx) (*domain.Scenario, bool) {
	var scenario domain.Scenario
	if err := json.Unmarshal(ctx.PostBody(), &scenario); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid scenario payload: "+err.Error())
		return nil, false
	}
	return &scenario, true
}

func (s *Server) handleProject(ctx *fasthttp.RequestCtx) {
	scenario, ok := s.decodeScenario(ctx)
	if !ok {
		return
	}
	rows := s.engine.Project(scenario)
	resp := projectResponse{
		Rows:             rows,
		Waterfall:        calculation.Waterfall(rows, scenario),
		ServiceBreakdown: calculation.ServiceBreakdown(rows, scenario.Assumptions),
	}
	if row, exhausted := calculation.ReserveExhaustion(rows); exhausted {
		resp.ReservesExhausted = true
		resp.ExhaustionYear = row.Year
	}
	s.writeJSON(ctx, resp)
}

func (s *Server) handleSensitivity(ctx *fasthttp.RequestCtx) {
	scenario, ok := s.decodeScenario(ctx)
	if !ok {
		return
	}
	s.writeJSON(ctx, s.engine.DriverSensitivities(scenario))
}

func (s *Server) handleBreakEven(ctx *fasthttp.RequestCtx) {
	scenario, ok := s.decodeScenario(ctx)
	if !ok {
		return
	}
	resp := breakEvenResponse{
		AdditionalSavings: s.engine.SolveAdditionalSavings(scenario).String(),
	}
	if rate := s.engine.SolveCouncilTaxIncrease(scenario); rate != nil {
		str := rate.String()
		resp.CouncilTaxIncrease = &str
	}
	s.writeJSON(ctx, resp)
}

func (s *Server) handleStress(ctx *fasthttp.RequestCtx) {
	var req stressRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Scenario == nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "stress request requires a scenario")
		return
	}
	s.writeJSON(ctx, s.engine.RunStressTest(req.Scenario, req.Params))
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	var req compareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Scenario == nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "compare request requires a scenario")
		return
	}
	set, err := s.comparer.Compare(req.Scenario, req.Templates)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(ctx, set)
}

func (s *Server) handleExportCSV(ctx *fasthttp.RequestCtx) {
	scenario, ok := s.decodeScenario(ctx)
	if !ok {
		return
	}
	data, err := output.ProjectionCSV(s.engine.Project(scenario))
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("text/csv")
	ctx.SetBody(data)
}

func (s *Server) handleExportWorkbook(ctx *fasthttp.RequestCtx) {
	var req exportRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Scenario == nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "export request requires a scenario")
		return
	}
	rows := s.engine.Project(req.Scenario)
	var meta *output.ExportMetadata
	if req.IncludeMetadata {
		meta = &output.ExportMetadata{
			Scenario:        req.Scenario,
			GovernanceNotes: req.GovernanceNotes,
			Stress:          req.Stress,
		}
	}
	data, err := output.BuildWorkbook(rows, meta).Bytes()
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.SetBody(data)
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, validateResponse{Valid: config.ValidateImportedPayload(ctx.PostBody())})
}

func (s *Server) handleListScenarios(ctx *fasthttp.RequestCtx) {
	names, err := s.store.List()
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(ctx, names)
}

func (s *Server) handleScenarioByName(ctx *fasthttp.RequestCtx, name, method string) {
	if name == "" {
		s.writeError(ctx, fasthttp.StatusBadRequest, "scenario name is required")
		return
	}
	switch method {
	case fasthttp.MethodGet:
		scenario, err := s.store.Get(name)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(ctx, fasthttp.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(ctx, scenario)
	case fasthttp.MethodPut:
		scenario, ok := s.decodeScenario(ctx)
		if !ok {
			return
		}
		// The URL segment is the store key and wins over any name carried
		// in the payload.
		scenario.Name = name
		if err := s.store.Put(name, scenario); err != nil {
			s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	case fasthttp.MethodDelete:
		if err := s.store.Delete(name); errors.Is(err, store.ErrNotFound) {
			s.writeError(ctx, fasthttp.StatusNotFound, "scenario not found")
			return
		} else if err != nil {
			s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	default:
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	s.logger.Warn("request failed", zap.Int("status", status), zap.String("error", message))
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	data, _ := json.Marshal(errorResponse{Error: message})
	ctx.SetBody(data)
}
