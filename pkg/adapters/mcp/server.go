// Package mcp exposes a network as an MCP server, so model-driven hosts can
// query beliefs and step sessions over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/aretw0/credence/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SolveResponse is the structured result of the solve tools.
type SolveResponse struct {
	Target string             `json:"target" jsonschema_description:"The solved variable"`
	Belief map[string]float64 `json:"belief,omitempty" jsonschema_description:"Posterior distribution over the variable's outcomes"`
	OK     bool               `json:"ok" jsonschema_description:"Whether the variable was resolvable"`
	Step   int                `json:"step,omitempty" jsonschema_description:"Completed solve count of the session, for session solves"`
}

// Server wraps a network and exposes it as an MCP server. Session solves
// persist through the store; pass nil to disable the session tool.
type Server struct {
	network   *credence.Network
	store     ports.StateStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(network *credence.Network, store ports.StateStore) *Server {
	s := &Server{
		network:   network,
		store:     store,
		mcpServer: server.NewMCPServer("credence-mcp", strings.TrimSpace(credence.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: solve
	solveTool := mcp.NewTool("solve",
		mcp.WithDescription("Compute the belief of a variable given optional evidence. Evidence is a JSON object mapping variable names to observed outcomes."),
		mcp.WithString("target", mcp.Required(), mcp.Description("The variable to solve for")),
		mcp.WithString("evidence", mcp.Description("JSON object of variable -> observed outcome (optional)")),
		mcp.WithOutputSchema[SolveResponse](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	if s.store != nil {
		// TOOL: session_solve
		sessionTool := mcp.NewTool("session_solve",
			mcp.WithDescription("Solve within a persistent session. Each call advances the session's network one time step."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("The session to load and advance")),
			mcp.WithString("target", mcp.Required(), mcp.Description("The variable to solve for")),
			mcp.WithString("evidence", mcp.Description("JSON object of variable -> observed outcome (optional)")),
			mcp.WithOutputSchema[SolveResponse](),
		)
		s.mcpServer.AddTool(sessionTool, mcp.NewStructuredToolHandler(s.handleSessionSolve))
	}

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full network structure for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.network.Inspect())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SolveResponse, error) {
	target, evs, err := parseSolveArgs(args)
	if err != nil {
		return SolveResponse{}, err
	}

	res, err := solveOn(s.network, target, evs)
	if err != nil {
		return SolveResponse{}, fmt.Errorf("solve failed: %w", err)
	}
	return SolveResponse{Target: target, Belief: beliefMap(res), OK: res.OK}, nil
}

func (s *Server) handleSessionSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SolveResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return SolveResponse{}, fmt.Errorf("session_id is required")
	}
	target, evs, err := parseSolveArgs(args)
	if err != nil {
		return SolveResponse{}, err
	}

	state, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		state = domain.NewState(s.network.Name(), s.network.Priors())
		err = nil
	}
	if err != nil {
		return SolveResponse{}, fmt.Errorf("load session failed: %w", err)
	}

	res, err := solveOn(s.network.WithPriors(state.Priors), target, evs)
	if err != nil {
		return SolveResponse{}, fmt.Errorf("solve failed: %w", err)
	}

	next := state.Advance(res.Next.Priors())
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return SolveResponse{}, fmt.Errorf("save session failed: %w", err)
	}
	return SolveResponse{Target: target, Belief: beliefMap(res), OK: res.OK, Step: next.Step}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: credence://graph
	s.mcpServer.AddResource(mcp.NewResource("credence://graph", "Network Structure",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.network.Inspect())
		if err != nil {
			return nil, fmt.Errorf("failed to inspect network: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "credence://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func parseSolveArgs(args map[string]interface{}) (string, []domain.Evidence, error) {
	target, _ := args["target"].(string)
	if target == "" {
		return "", nil, fmt.Errorf("target is required")
	}

	var evs []domain.Evidence
	if evStr, ok := args["evidence"].(string); ok && evStr != "" {
		var observed map[string]string
		if err := json.Unmarshal([]byte(evStr), &observed); err != nil {
			return "", nil, fmt.Errorf("evidence must be a JSON object of variable -> outcome: %w", err)
		}
		for name, outcome := range observed {
			evs = append(evs, domain.Value(name, outcome))
		}
	}
	return target, evs, nil
}

func solveOn(net *credence.Network, target string, evs []domain.Evidence) (credence.Result, error) {
	if len(evs) == 0 {
		return net.Solve(target)
	}
	obs, err := net.Evidences(evs...)
	if err != nil {
		return credence.Result{}, err
	}
	return obs.Solve(target)
}

func beliefMap(res credence.Result) map[string]float64 {
	if !res.OK {
		return nil
	}
	return res.Belief.Map()
}
