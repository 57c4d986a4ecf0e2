// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle (open the
// ledger, parse it, compute statistics, print the report), decoupled from
// any specific entrypoint like a CLI.
package app
