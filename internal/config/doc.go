// Package config handles configuration loading for interview-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	provider:
//	  api_key: "${OPENROUTER_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # WebSocket channel and REST API
//	  shutdown_grace: "10s"
//
// Database:
//
//	database:
//	  path: "/var/lib/interview-gateway/gateway.db"
//
// Completion provider:
//
//	provider:
//	  base_url: "https://openrouter.ai/api/v1"
//	  api_key: "${OPENROUTER_API_KEY}"
//	  model: "google/gemini-2.5-pro-preview-03-25"
//	  timeout: "60s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/interview-gateway/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
