// Package tools defines the tool interfaces shared by the weather tools,
// their lifecycle callbacks and their registration on an MCP server.
package tools
