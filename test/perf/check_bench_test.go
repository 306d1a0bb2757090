package perf

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/reporting"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
)

const benchEntry = `Date: 2026-01-10
Aircraft: N12345
Description: Annual inspection performed per part 43 appendix D. Work performed as listed.
AD 2020-06-14 complied with by inspection.
Signature: J. Smith, A&P 3312345
Approved for return to service.
Night time: 1.2 Total time: 2.4
Weight and balance: Empty weight: 1680 Center of gravity: 39.2 Useful load: 870 within limits
`

func benchDocs(n int) []compliance.Document {
	docs := make([]compliance.Document, n)
	for i := range docs {
		docs[i] = compliance.Document{
			Filename: fmt.Sprintf("entry-%03d.md", i),
			Content:  benchEntry,
		}
	}
	return docs
}

func benchChecker(workers int) *rules.Checker {
	return rules.NewChecker(rules.Config{
		Workers: workers,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func BenchmarkCheck_Small(b *testing.B) {
	checker := benchChecker(1)
	docs := benchDocs(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results := checker.CheckDocuments(docs)
		rep := reporting.Build(results, 0, time.Time{})
		if rep.FilesChecked != len(docs) {
			b.Fatal("lost documents")
		}
	}
}

func BenchmarkCheck_Parallel(b *testing.B) {
	checker := benchChecker(8)
	docs := benchDocs(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if results := checker.CheckDocuments(docs); len(results) != len(docs) {
			b.Fatal("lost documents")
		}
	}
}

func BenchmarkMarkdownRender(b *testing.B) {
	rep := reporting.Build(benchChecker(1).CheckDocuments(benchDocs(50)), 0, time.Time{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if md := reporting.Markdown(rep); len(md) == 0 {
			b.Fatal("empty render")
		}
	}
}
