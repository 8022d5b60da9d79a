// Package mcpserver exposes the FAQ matcher and the sequence generator as MCP
// (Model Context Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
)

// Resource URIs.
const (
	KnowledgeBaseURI = "sowilo://knowledge-base"
	FAQFormatURI     = "sowilo://faq-format"
)

// Server wraps the MCP server with Sowilo tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates an MCP server with every tool and resource registered.
func New(svc *service.Service, version string) *Server {
	s := &Server{svc: svc}
	limits := svc.Limits()

	styles := make([]string, 0, len(music.Styles()))
	for _, st := range music.Styles() {
		styles = append(styles, string(st))
	}

	s.mcp = server.NewMCPServer(
		"Sowilo",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("ask_faq",
		mcp.WithDescription("Answer a question about the internship program from the FAQ knowledge base. "+
			"Returns the canned answer, or a fallback message when nothing matches well enough."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Free-text question")),
	), s.askFAQ)

	s.mcp.AddTool(mcp.NewTool("search_faqs",
		mcp.WithDescription("Suggest FAQ questions related to a query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search words")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of suggestions"), mcp.Min(1), mcp.Max(100)),
	), s.searchFAQs)

	s.mcp.AddTool(mcp.NewTool("list_styles",
		mcp.WithDescription("List the music styles and the pitches each one draws from."),
	), s.listStyles)

	s.mcp.AddTool(mcp.NewTool("generate_sequence",
		mcp.WithDescription("Generate a random note sequence and return it in the JSON export format "+
			`([{"note": "C4", "duration": 0.5}, ...], durations in beats).`),
		mcp.WithString("style", mcp.Description("Palette to draw pitches from"), mcp.Enum(styles...)),
		mcp.WithNumber("length", mcp.Description("Number of notes"),
			mcp.Min(float64(limits.MinLength)), mcp.Max(float64(limits.MaxLength))),
	), s.generateSequence)

	s.mcp.AddResource(
		mcp.NewResource(KnowledgeBaseURI, "FAQ Knowledge Base",
			mcp.WithResourceDescription("Every FAQ entry with its keywords, in matching order."),
			mcp.WithMIMEType("application/json"),
		),
		s.readKnowledgeBase,
	)

	s.mcp.AddResource(
		mcp.NewResource(FAQFormatURI, "FAQ Entry Format",
			mcp.WithResourceDescription("How to write Markdown knowledge-base entries."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFAQFormat,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) askFAQ(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.svc.AskWithScore(ctx, question)
	if !res.Found {
		return mcp.NewToolResultText(res.Answer), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n(matched %q, confidence %.2f)", res.Answer, res.Question, res.Score)), nil
}

func (s *Server) searchFAQs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchFAQs(ctx, query, req.GetInt("limit", 5))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matching questions"), nil
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.Question
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listStyles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, st := range s.svc.Styles() {
		fmt.Fprintf(&b, "%s: %s\n", st.Name, strings.Join(st.Palette, " "))
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (s *Server) generateSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.svc.Generate(ctx, req.GetString("style", ""), req.GetInt("length", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := music.MarshalExport(out.Notes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readKnowledgeBase(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.svc.ListFAQs(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode knowledge base: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      KnowledgeBaseURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readFAQFormat(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FAQFormatURI,
			MIMEType: "text/markdown",
			Text:     FAQFormatContract,
		},
	}, nil
}
