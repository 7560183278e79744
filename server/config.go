package server

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// HTTP server configuration struct
// --------------------------------------------------------------------------

// Config holds all configuration parameters for the HTTP server.
type Config struct {
	// HTTP api settings
	Endpoint string

	// Mount specifications the server was started with (informational)
	Mounts []string

	// Serializer name (json, raw)
	Serializer string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// HTTP settings
	addSection("HTTP Server")
	addField("Endpoint", c.Endpoint)
	addField("Serializer", c.Serializer)

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Mounts
	addSection("Mounts")
	addField("root", "(default driver)")
	for i, mount := range c.Mounts {
		addField(fmt.Sprintf("mount %d", i), mount)
	}

	return sb.String()
}
