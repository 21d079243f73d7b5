// Package routing resolves route names into paths and decides which routes a
// user may reach. Resolvers exist for static tables, gorilla/mux routers and
// OpenAPI documents; PolicyGate evaluates expr-lang rules.
package routing
