package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search uploaded documents semantically. Returns the most relevant passages with their source file and similarity score."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (default 5)"),
	),
)

// askQuestionTool defines the ask_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Answer a question using the uploaded documents. The answer is grounded in the most relevant passages and cites its sources."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithNumber("max_sources",
		mcp.Description("Maximum number of source passages to ground the answer on (default 5)"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List uploaded documents with their processing status."),
	mcp.WithString("user_id",
		mcp.Description("Only list documents uploaded by this user"),
	),
)
