// =============================================================================
// FILE: cmd/analyzer/main.go
// ROLE: CLI entry point for the transaction call-trace inspector
// =============================================================================
//
// Usage examples:
//   analyzer analyze 0x<hash> --rpc http://localhost:8545
//   analyzer analyze 0x<hash> --endpoint archive --lang zh
//   analyzer analyze 0x<hash> --format json
//   analyzer analyze 0x<hash> --interactive
//   analyzer serve --listen :8080
//
// EXECUTION FLOW
// ==============
//
//   main()
//     └─ root.Execute()
//          ├─ PersistentPreRunE: env.Load(--env-file)   ← .env before config
//          ├─ analyze  → analyzer.Analyze → output.RenderTerminal / WriteJSON
//          │              └─ --interactive → REPL over the rendered tree
//          ├─ serve    → server.Start (web UI + JSON API + /metrics)
//          └─ version
//
// The config file is optional. Without one, --rpc and the positional hash
// are enough; defaults come from the struct tags in internal/config.
//
// Errors from an analysis are already rendered (banner or JSON error
// report) by the time they reach main, so main only prints other errors.
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var aerr *analyzer.Error
		if !errors.As(err, &aerr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
