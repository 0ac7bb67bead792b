package credence

// Version is the engine version reported by the CLI and the MCP server.
var Version = "0.2.0"
