// Package domain contains the core business entities for crewd.
// Types here are dependency-free and shared by services, ports and adapters.
package domain
