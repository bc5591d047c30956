package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listChaptersTool defines the list_chapters MCP tool.
var listChaptersTool = mcp.NewTool("list_chapters",
	mcp.WithDescription("List the Python tutorial chapters in reading order with their ids, titles and file names."),
)

// readChapterTool defines the read_chapter MCP tool.
var readChapterTool = mcp.NewTool("read_chapter",
	mcp.WithDescription("Read the Markdown of one tutorial chapter."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Chapter id as listed by list_chapters"),
	),
)

// searchChaptersTool defines the search_chapters MCP tool.
var searchChaptersTool = mcp.NewTool("search_chapters",
	mcp.WithDescription("Search all tutorial chapters for lines containing the query (case-insensitive)."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Text to look for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of matching lines to return (default 20)"),
	),
)
