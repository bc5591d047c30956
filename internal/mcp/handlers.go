package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultSearchLimit = 20

// Match is one line of a chapter that contains the search query.
type Match struct {
	ChapterID int    `json:"chapter_id"`
	Title     string `json:"title"`
	Section   string `json:"section,omitempty"`
	Line      int    `json:"line"`
	Text      string `json:"text"`
}

func (s *Server) handleListChapters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(s.registry.All(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing chapters: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleReadChapter returns the chapter Markdown, or the placeholder text when
// the chapter could not be loaded.
func (s *Server) handleReadChapter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id == 0 {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	ch, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no chapter with id %d. Use list_chapters to see the available ids.", id)), nil
	}

	res, err := s.source.Source(ctx, ch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading chapter %d: %v", id, err)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func (s *Server) handleSearchChapters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches, err := s.search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No results found for: " + query), nil
	}

	out, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// search scans every loadable chapter in registry order and returns up to
// limit lines containing query, ignoring case. Chapters that fail to load are
// skipped.
func (s *Server) search(ctx context.Context, query string, limit int) ([]Match, error) {
	needle := strings.ToLower(query)
	var matches []Match

	for _, ch := range s.registry.All() {
		res, err := s.source.Source(ctx, ch)
		if err != nil {
			return nil, err
		}
		if res.Failed {
			continue
		}

		section := ""
		inFence := false
		for i, line := range strings.Split(res.Text, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				inFence = !inFence
			} else if !inFence && strings.HasPrefix(trimmed, "#") {
				section = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			}

			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}
			matches = append(matches, Match{
				ChapterID: ch.ID,
				Title:     ch.Title,
				Section:   section,
				Line:      i + 1,
				Text:      strings.TrimRight(line, "\r"),
			})
			if len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}
