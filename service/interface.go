package service

// Service is a long-lived subsystem owned by the hub: terminal, audio
// device, content cache
//
// Lifecycle:
//  1. Construction with its configuration
//  2. Init() acquires resources; dependencies are already initialized
//  3. Start() launches background goroutines
//  4. [game loop runs]
//  5. Stop() releases everything; must be idempotent
type Service interface {
	Name() string

	// Dependencies names services that must Init before this one
	Dependencies() []string

	Init() error
	Start() error
	Stop() error
}
