// Package config defines the format-agnostic description of a graph, along
// with the Loader and Writer interfaces that concrete formats implement.
//
// The `config.Model` is what the builder turns into a runtime graph and what
// the writers serialize. The YAML and HCL formats live in separate packages.
package config
