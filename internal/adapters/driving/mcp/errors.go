// Package mcp provides an MCP (Model Context Protocol) server adapter for crewd.
// It lets AI assistants search the company knowledge corpus and hand tasks to
// department agents.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
