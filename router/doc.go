// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires components and handlers into an http.ServeMux
using Go 1.22+ method-and-pattern routing.

NewRouter builds the dependency chain in leaf order: the registry
stands alone, the round manager needs only a clock, and the ballot
ledger consults both. Handlers sit on top and never touch another
component's tables directly.
*/
package router
