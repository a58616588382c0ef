package vectormem_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/discussion"
	"github.com/reelworks/reels/pkg/logger"
	"github.com/reelworks/reels/pkg/vectormem"
)

var _ = Describe("Store", func() {
	var ctx context.Context
	var tmpDir string
	var store *vectormem.Store

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		tmpDir, err = os.MkdirTemp("", "vectormem-test-*")
		Expect(err).NotTo(HaveOccurred())

		dstore, err := discussion.NewResolver(tmpDir).Open("disc-1")
		Expect(err).NotTo(HaveOccurred())

		store, err = vectormem.Open(dstore, vectormem.Config{}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		store.Close()
		os.RemoveAll(tmpDir)
	})

	Describe("Open", func() {
		It("is idempotent across restarts", func() {
			Expect(store.Close()).To(Succeed())

			dstore, err := discussion.NewResolver(tmpDir).Open("disc-1")
			Expect(err).NotTo(HaveOccurred())

			store, err = vectormem.Open(dstore, vectormem.Config{}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(store.MemoryCount(ctx)).To(BeZero())
		})
	})

	Describe("AddMemory", func() {
		It("persists the memory and makes it searchable", func() {
			id := store.AddMemory(ctx, "we decided to use sqlite for storage",
				`{"title":"storage decision","entities":["sqlite"],"key_phrases":["storage engine"]}`)
			Expect(id).To(BeNumerically(">", 0))
			Expect(store.MemoryCount(ctx)).To(Equal(1))

			results := store.Search(ctx, "sqlite", 5)
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(ContainSubstring("sqlite"))
		})

		It("indexes flattened metadata fields", func() {
			store.AddMemory(ctx, "some unrelated body text",
				`{"entities":["\"quoted\" widget","gadget"]}`)

			results := store.Search(ctx, "gadget", 5)
			Expect(results).To(HaveLen(1))
		})

		It("accepts empty metadata", func() {
			Expect(store.AddMemory(ctx, "bare text", "")).To(BeNumerically(">", 0))
		})

		It("rolls back the ground-truth row on malformed metadata", func() {
			store.AddMemory(ctx, "seed", `{"title":"ok"}`)
			before := store.MemoryCount(ctx)

			id := store.AddMemory(ctx, "orphan candidate", `{"title":42}`)
			Expect(id).To(BeZero())
			Expect(store.MemoryCount(ctx)).To(Equal(before))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			store.AddMemory(ctx, "alpha discussion about databases", `{"title":"alpha"}`)
			store.AddMemory(ctx, "beta discussion about networking", `{"title":"beta"}`)
		})

		It("combines semicolon-delimited phrases with OR", func() {
			results := store.Search(ctx, "databases; networking", 10)
			Expect(results).To(HaveLen(2))
		})

		It("treats hyphens as spaces", func() {
			store.AddMemory(ctx, "token bounded chunk sizes", `{}`)
			results := store.Search(ctx, "token-bounded", 10)
			Expect(results).To(HaveLen(1))
		})

		It("survives embedded quotes", func() {
			results := store.Search(ctx, `al"pha; databases`, 10)
			Expect(results).To(HaveLen(1))
		})

		It("silently truncates queries beyond the keyword cap", func() {
			phrases := make([]string, 0, 40)
			phrases = append(phrases, "databases")
			for i := 0; i < 39; i++ {
				phrases = append(phrases, fmt.Sprintf("filler%d", i))
			}

			results := store.Search(ctx, strings.Join(phrases, "; "), 10)
			Expect(results).To(HaveLen(1))
		})

		It("returns nothing for an empty query", func() {
			Expect(store.Search(ctx, " ; ; ", 10)).To(BeEmpty())
		})

		It("ranks fresh matches at least as well as stale ones", func() {
			results := store.Search(ctx, "discussion", 10)
			Expect(results).To(HaveLen(2))
			// bm25 scores are negative-better; combined scores stay negative.
			for _, r := range results {
				Expect(r.Score).To(BeNumerically("<", 0))
			}
		})
	})

	Describe("RecencyScore", func() {
		It("boosts a brand-new memory close to the max", func() {
			now := time.Now().UTC().Format(time.RFC3339)
			Expect(store.RecencyScore(now)).To(BeNumerically("~", 2.5, 0.1))
		})

		It("decays toward neutral for old memories", func() {
			old := store.RecencyScore("2024-01-01T00:00:00+00:00")
			Expect(old).To(BeNumerically(">", 1.0))
			Expect(old).To(BeNumerically("<", 2.5))

			older := store.RecencyScore("2020-01-01T00:00:00+00:00")
			Expect(older).To(BeNumerically("<", old))
		})

		It("returns the neutral boost for unparsable dates", func() {
			Expect(store.RecencyScore("not a date")).To(Equal(1.0))
		})
	})

	Describe("hash ledger", func() {
		It("reads back most recent first", func() {
			store.AppendHash(ctx, "h1")
			store.AppendHash(ctx, "h2")
			store.AppendHash(ctx, "h3")

			Expect(store.RecentHashes(ctx, 2)).To(Equal([]string{"h3", "h2"}))
		})

		It("is empty for a fresh store", func() {
			Expect(store.RecentHashes(ctx, 10)).To(BeEmpty())
		})
	})

	Describe("IndexChunks", func() {
		chunks := []chunk.Chunk{
			{Text: "user: hello\nassistant: hi", Identity: chunk.Identity("hi")},
			{Text: "user: more\nassistant: sure", Identity: chunk.Identity("sure")},
		}

		It("indexes every new chunk and logs its identity", func() {
			Expect(store.IndexChunks(ctx, chunks)).To(Equal(2))
			Expect(store.MemoryCount(ctx)).To(Equal(2))
			Expect(store.RecentHashes(ctx, 10)).To(HaveLen(2))
		})

		It("is idempotent across repeated runs", func() {
			store.IndexChunks(ctx, chunks)
			Expect(store.IndexChunks(ctx, chunks)).To(BeZero())
			Expect(store.MemoryCount(ctx)).To(Equal(2))
		})

		It("picks up only the unseen tail", func() {
			store.IndexChunks(ctx, chunks[:1])

			extended := append([]chunk.Chunk{}, chunks...)
			Expect(store.IndexChunks(ctx, extended)).To(Equal(1))
			Expect(store.MemoryCount(ctx)).To(Equal(2))
		})
	})
})
