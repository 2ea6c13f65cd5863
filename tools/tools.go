//go:build tools

// Package tools documents development tool dependencies.
// These tools are installed via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// mockgen - regenerates the gomock doubles under internal/mocks and internal/core
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Run:     go generate ./internal/mocks
//
// golangci-lint - lint runner honoring the nolint directives in this module
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
