// cmd/mmdemo/main.go
//
// mmdemo - registers a couple of record types on a fresh allocator,
// exercises a small allocate/free workload, then prints a usage report.
//
// Usage:
//
//	mmdemo
package main

import (
	"fmt"
	"os"

	"mm"
)

func main() {
	a := mm.New()

	if status := a.Register("emp_t", 36); status != mm.OK {
		fmt.Fprintf(os.Stderr, "register emp_t: %v\n", status)
		os.Exit(1)
	}
	if status := a.Register("tlv_struct_t", 64); status != mm.OK {
		fmt.Fprintf(os.Stderr, "register tlv_struct_t: %v\n", status)
		os.Exit(1)
	}

	var live [][]byte
	for i := 0; i < 8; i++ {
		p, err := a.Xcalloc("emp_t", 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "xcalloc: %v\n", err)
			os.Exit(1)
		}
		live = append(live, p)
	}

	// Free every other record, so the report shows a fragmented page.
	for i := 0; i < len(live); i += 2 {
		a.Xfree(live[i])
	}

	if err := a.WriteReport(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}
