package discussion_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelworks/reels/pkg/discussion"
)

var _ = Describe("Store", func() {
	var tmpDir string
	var store *discussion.Store

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "discussion-test-*")
		Expect(err).NotTo(HaveOccurred())

		store, err = discussion.NewResolver(tmpDir).Open("disc-1")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("memory log", func() {
		It("is empty for a fresh discussion", func() {
			recs, err := store.MemoryLog()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})

		It("round-trips appended records in order", func() {
			Expect(store.AppendMemory(
				discussion.Record{Text: "first", Identity: "h1"},
				discussion.Record{Text: "second", Identity: "h2"},
			)).To(Succeed())
			Expect(store.AppendMemory(
				discussion.Record{Text: "third", Identity: "h3"},
			)).To(Succeed())

			recs, err := store.MemoryLog()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(3))
			Expect(recs[0].Text).To(Equal("first"))
			Expect(recs[2].Identity).To(Equal("h3"))
		})

		It("treats appending nothing as a no-op", func() {
			Expect(store.AppendMemory()).To(Succeed())

			_, err := os.Stat(filepath.Join(store.Dir(), "memories.json"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("errors on a malformed log file", func() {
			path := filepath.Join(store.Dir(), "memories.json")
			Expect(os.WriteFile(path, []byte("not json"), 0o644)).To(Succeed())

			_, err := store.MemoryLog()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("summary log", func() {
		It("is independent of the memory log", func() {
			Expect(store.AppendMemory(discussion.Record{Text: "mem", Identity: "m"})).To(Succeed())
			Expect(store.AppendSummary(discussion.Record{Text: "sum", Identity: "s"})).To(Succeed())

			sums, err := store.SummaryLog()
			Expect(err).NotTo(HaveOccurred())
			Expect(sums).To(HaveLen(1))
			Expect(sums[0].Text).To(Equal("sum"))
		})
	})

	Describe("timestamp map", func() {
		It("is empty for a fresh discussion", func() {
			m, err := store.TimestampMap()
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(BeEmpty())
		})

		It("round-trips a saved map", func() {
			Expect(store.SaveTimestampMap(map[string]string{
				"h1": "(Monday, 2026-08-24 10:00:00)",
			})).To(Succeed())

			m, err := store.TimestampMap()
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(HaveKeyWithValue("h1", "(Monday, 2026-08-24 10:00:00)"))
		})

		It("rejects a nil map", func() {
			Expect(store.SaveTimestampMap(nil)).NotTo(Succeed())
		})
	})

	Describe("Resolver", func() {
		It("isolates discussions from each other", func() {
			other, err := discussion.NewResolver(tmpDir).Open("disc-2")
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Dir()).NotTo(Equal(store.Dir()))

			Expect(other.AppendMemory(discussion.Record{Text: "x", Identity: "h"})).To(Succeed())

			recs, err := store.MemoryLog()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})

		It("maps hostile ids to safe directory names", func() {
			s, err := discussion.NewResolver(tmpDir).Open("../../etc/passwd")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Dir()).To(HavePrefix(filepath.Join(tmpDir, "discussions")))
		})

		It("keeps ids that sanitize identically apart", func() {
			first, err := discussion.NewResolver(tmpDir).Open("a/b")
			Expect(err).NotTo(HaveOccurred())
			second, err := discussion.NewResolver(tmpDir).Open("a?b")
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Dir()).NotTo(Equal(second.Dir()))

			Expect(first.AppendMemory(discussion.Record{Text: "x", Identity: "h"})).To(Succeed())
			recs, err := second.MemoryLog()
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})

		It("derives the vector store path inside the discussion directory", func() {
			Expect(store.VectorDBPath()).To(Equal(filepath.Join(store.Dir(), "vector.db")))
		})
	})
})
