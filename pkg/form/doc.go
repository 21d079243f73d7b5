// Package form defines the template and descriptor types shared by the
// builder, loaders and transports, plus the closed action and method sets.
package form
