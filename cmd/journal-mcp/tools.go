package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	braindump "github.com/garysheng/braindump"
	"github.com/garysheng/braindump/store"
)

// journal exposes raw session exports to MCP clients. It only reads.
type journal struct {
	store *store.Store
	log   *log.Logger
}

func (j *journal) server() *server.MCPServer {
	s := server.NewMCPServer("braindump-journal", "1.0.0", server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List a user's recording sessions, newest first, as id, creation time and title."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the sessions")),
	), j.listSessions)

	s.AddTool(mcp.NewTool("export_session",
		mcp.WithDescription("Return the raw question and answer export of a session. Defaults to the most recent session."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the session")),
		mcp.WithString("session_id", mcp.Description("Session to export; omit for the most recent one")),
	), j.exportSession)

	return s
}

func (j *journal) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessions, err := j.store.Sessions(ctx, userID)
	if err != nil {
		j.log.Printf("list_sessions for %s: %v\n", userID, err)
		return mcp.NewToolResultError("failed to list sessions"), nil
	}
	if len(sessions) == 0 {
		return mcp.NewToolResultText("No sessions."), nil
	}

	var b strings.Builder
	for _, sess := range sessions {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", sess.ID, sess.CreatedAt.Format("2006-01-02 15:04"), sess.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (j *journal) exportSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sess *store.Session
	if sessionID := req.GetString("session_id", ""); sessionID != "" {
		sess, err = j.store.Session(ctx, userID, sessionID)
	} else {
		sess, err = j.store.MostRecentSession(ctx, userID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError("session not found"), nil
	}
	if err != nil {
		j.log.Printf("export_session for %s: %v\n", userID, err)
		return mcp.NewToolResultError("failed to load session"), nil
	}

	text := fmt.Sprintf("# %s (%s)\n\n%s", sess.Title, braindump.ExportFilename(sess), store.ExportText(sess))
	return mcp.NewToolResultText(text), nil
}
