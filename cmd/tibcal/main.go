// Command tibcal converts between Tibetan Phugpa and Gregorian dates and
// inspects the month table.
//
// Usage:
//
//	tibcal to-tibetan 2024-02-10
//	tibcal to-tibetan 2024-03-20 2024-03-30
//	tibcal to-gregorian 17 38 2 14
//	tibcal to-gregorian 17 38 6 '*'
//	tibcal month 17 38 6
//	tibcal months --rabjung 17
//	tibcal check
//	tibcal export --db data/tibcal.db
//	tibcal serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tibcal: %v\n", err)
		os.Exit(1)
	}
}
