package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"olist-benchmark/internal/workloads/olist"
)

func BenchmarkRunConcurrencyTest(b *testing.B) {
	gen := NewGenerator(&mockDriver{rows: 10}, zerolog.Nop())

	for _, q := range olist.Names() {
		for _, threads := range []int{1, 10, 50} {
			b.Run(fmt.Sprintf("%s/%d", q, threads), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_, rep, err := gen.RunConcurrencyTest(context.Background(), threads, q, 5)
					if err != nil {
						b.Fatalf("run failed: %v", err)
					}
					if rep == nil {
						b.Fatal("no successful trials")
					}
				}
			})
		}
	}
}
