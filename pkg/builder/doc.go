// Package builder turns a form template into a descriptor: it binds the
// record being edited, resolves one route per action through a routing
// Resolver, optionally filters explicit routes through an AccessGate and
// translates the title and button labels.
//
// Setters chain and record the first failure; Build reports it. A builder is
// consumed by Build.
package builder
