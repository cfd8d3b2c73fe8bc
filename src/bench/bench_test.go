package bench_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"detbench/src/bench"
	"detbench/src/bench/cover"
)

var _ = Describe("Bench", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	run := func(opts bench.Options) *bench.Bench {
		b, err := bench.NewBench(opts, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Run()).To(Succeed())
		return b
	}

	It("rejects an unknown test name", func() {
		opts := bench.DefaultOptions()
		opts.Test = "bogus"
		_, err := bench.NewBench(opts, logger)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown idle data policy", func() {
		opts := bench.DefaultOptions()
		opts.IdleData = "floating"
		_, err := bench.NewBench(opts, logger)
		Expect(err).To(HaveOccurred())
	})

	It("runs the simple test cleanly", func() {
		opts := bench.DefaultOptions()
		opts.Test = "simple"
		b := run(opts)

		Expect(b.Check()).To(Succeed())
		Expect(b.SequenceStats().Completed).To(Equal(2))

		st := b.Environment().Scoreboard().Stats()
		Expect(st.Matched).To(Equal(2))
		Expect(st.ValueMismatches).To(BeZero())

		cov := b.Environment().Coverage()
		Expect(cov.MatrixTypeBins[cover.ClassIdentity]).To(BeNumerically(">=", 1))
	})

	It("matches every item of a random run", func() {
		opts := bench.DefaultOptions()
		opts.Test = "random"
		opts.NumItems = 10
		opts.Seed = 7
		b := run(opts)

		Expect(b.Check()).To(Succeed())
		Expect(b.SequenceStats().Completed).To(Equal(10))
		Expect(b.Environment().Scoreboard().Stats().Matched).To(Equal(10))
	})

	It("sustains back-to-back stress traffic", func() {
		opts := bench.DefaultOptions()
		opts.Test = "stress"
		opts.NumItems = 15
		opts.Seed = 11
		b := run(opts)

		Expect(b.Check()).To(Succeed())
		Expect(b.Environment().Scoreboard().Stats().Matched).To(Equal(15))

		// Stress items carry no pre-delays at all.
		Expect(b.Environment().Coverage().DelayBins["short"]).To(Equal(15))
	})

	It("matches every item of a small value run", func() {
		opts := bench.DefaultOptions()
		opts.Test = "small"
		opts.NumItems = 10
		opts.Seed = 13
		b := run(opts)

		Expect(b.Check()).To(Succeed())
		Expect(b.Environment().Scoreboard().Stats().Matched).To(Equal(10))
	})

	It("matches every item when the core is back-pressured", func() {
		opts := bench.DefaultOptions()
		opts.Test = "random"
		opts.NumItems = 5
		opts.Seed = 17
		opts.AckDelay = 3
		b := run(opts)

		Expect(b.Check()).To(Succeed())
		Expect(b.Environment().Scoreboard().Stats().Matched).To(Equal(5))
	})

	It("populates the report without an explicit check", func() {
		opts := bench.DefaultOptions()
		opts.Test = "simple"
		b := run(opts)

		// Report must drain the observation FIFOs itself; a runner that
		// reports before checking still gets populated bins and tallies.
		b.Report()
		Expect(b.Environment().Scoreboard().Stats().Matched).To(Equal(2))
		Expect(b.Environment().Coverage().MatrixTypeBins[cover.ClassIdentity]).To(BeNumerically(">=", 1))

		Expect(b.Check()).To(Succeed())
	})

	It("stays consistent across mid-run resets", func() {
		opts := bench.DefaultOptions()
		opts.Test = "multi_reset"
		opts.NumItems = 8
		opts.Seed = 19
		opts.ResetPulses = 5
		b := run(opts)

		seqStats := b.SequenceStats()
		Expect(seqStats.Submitted).To(Equal(8))
		Expect(seqStats.Completed + seqStats.Aborted).To(Equal(8))

		// A reset may legitimately strand a result that was still in the
		// pipeline, so the verdict is not required to be clean. What must
		// hold: nothing observed disagrees, nothing spurious appears, and
		// every expected item is either matched or accounted lost.
		_ = b.Check()
		st := b.Environment().Scoreboard().Stats()
		Expect(st.ValueMismatches).To(BeZero())
		Expect(st.FlagMismatches).To(BeZero())
		Expect(st.SpuriousOutputs).To(BeZero())
		Expect(st.Matched).To(Equal(st.Expected - st.LostExpected))

		b.Report()
	})
})
