// Ragbot CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/ragbot/internal/dagger"
)

// Ragbot is the main module for the Ragbot CI/CD pipeline
type Ragbot struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Ragbot CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Ragbot {
	return &Ragbot{
		Source: source,
	}
}

// goContainer returns an Alpine-based Go container with the Go module and
// build caches mounted and the project source in the workdir.
//
// It is the shared foundation for tests, builds, and linting.
func (r *Ragbot) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.24-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", r.Source)
}

// Test runs the ragbot unit tests via "go test"
func (r *Ragbot) Test(ctx context.Context) (string, error) {
	return r.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
