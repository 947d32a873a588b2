package observability

import (
	"fmt"
	"runtime"
)

const banner = `
 __      __ ___  ___  ___
 \ \ /\ / /| __|| _ )/ _ \
  \ V  V / | _| | _ \ (_) |
   \_/\_/  |___||___/\___/
`

// PrintBanner prints the startup banner.
func PrintBanner() {
	fmt.Print(banner)
	fmt.Printf("  research orchestrator | %s | %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
