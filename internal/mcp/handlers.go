package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/qa"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// handleSearchDocuments performs similarity search over the embedding store.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No matching passages found. Upload documents first via the API."), nil
	}

	return mcp.NewToolResultText(formatMatches(results)), nil
}

// handleAskQuestion answers a question grounded in the uploaded documents.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	maxSources := request.GetInt("max_sources", 5)
	if maxSources <= 0 {
		maxSources = 5
	}

	answer, err := s.qa.Answer(ctx, question, maxSources)
	if err != nil {
		if errors.Is(err, qa.ErrNoRelevantDocuments) {
			return mcp.NewToolResultText("No relevant documents found for this question."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(answer.Answer)
	sb.WriteString("\n\nSources:\n")
	for _, src := range answer.Sources {
		sb.WriteString(fmt.Sprintf("- %s (similarity %.2f)\n", src.FileName, src.Similarity))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListDocuments lists uploaded documents and their processing status.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		docs []documents.Document
		err  error
	)
	if userID := request.GetString("user_id", ""); userID != "" {
		docs, err = s.docs.ListByUser(ctx, userID)
	} else {
		docs, err = s.docs.List(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents failed: %v", err)), nil
	}

	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents uploaded yet."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d document(s):\n", len(docs)))
	for _, d := range docs {
		sb.WriteString(fmt.Sprintf("\n- %s\n  ID: %s\n  Uploaded by: %s\n  Status: %s\n  Size: %d bytes\n",
			d.FileName, d.ID, d.UserID, d.Status, d.Size))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatMatches converts search matches into a text format optimized for
// AI agent consumption.
func formatMatches(matches []vectorstore.Match) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d passage(s):\n", len(matches)))

	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("\n--- Passage %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("File: %s\n", m.FileName))
		sb.WriteString(fmt.Sprintf("Document: %s\n", m.DocumentID))
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", m.Similarity*100))
		sb.WriteString("\n")
		sb.WriteString(m.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
