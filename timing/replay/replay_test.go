package replay_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/timing/predictor"
	"github.com/sarchlab/bpsim/timing/replay"
	"github.com/sarchlab/bpsim/trace"
)

type recordingHook struct {
	positions []*sim.HookPos
	records   []trace.Record
	detail    []bool
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
	h.records = append(h.records, ctx.Item.(trace.Record))
	h.detail = append(h.detail, ctx.Detail.(bool))
}

// loopTrace models a loop branch taken n-1 times then falling through,
// repeated iterations times.
func loopTrace(addr uint64, n, iterations int) []trace.Record {
	var records []trace.Record
	for i := 0; i < iterations; i++ {
		for j := 0; j < n-1; j++ {
			records = append(records, trace.Record{Addr: addr, Taken: true})
		}
		records = append(records, trace.Record{Addr: addr, Taken: false})
	}
	return records
}

var _ = Describe("Stats", func() {
	It("should report zero rates when empty", func() {
		var s replay.Stats
		Expect(s.Accuracy()).To(Equal(0.0))
		Expect(s.MispredictionRate()).To(Equal(0.0))
	})

	It("should compute percentages", func() {
		s := replay.Stats{Predictions: 8, Correct: 6, Mispredictions: 2}
		Expect(s.Accuracy()).To(Equal(75.0))
		Expect(s.MispredictionRate()).To(Equal(25.0))
	})
})

var _ = Describe("Replayer", func() {
	It("should count correct and mispredicted branches", func() {
		r := replay.NewReplayer(predictor.NewTwoBit())
		records := []trace.Record{
			{Addr: 16, Taken: false}, // predicted T, wrong
			{Addr: 16, Taken: false}, // predicted N, right
			{Addr: 16, Taken: true},  // predicted N, wrong
			{Addr: 16, Taken: true},  // predicted N, wrong
			{Addr: 32, Taken: true},  // predicted T, right
		}

		stats, err := r.Run(context.Background(), records)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Predictions).To(Equal(uint64(5)))
		Expect(stats.Correct).To(Equal(uint64(2)))
		Expect(stats.Mispredictions).To(Equal(uint64(3)))
		Expect(stats.UniqueBranches).To(Equal(uint64(2)))
		Expect(r.Stats()).To(Equal(stats))
	})

	It("should return the prediction made before update", func() {
		r := replay.NewReplayer(predictor.NewOneBit())
		Expect(r.Step(trace.Record{Addr: 4, Taken: false})).To(BeTrue())
		Expect(r.Step(trace.Record{Addr: 4, Taken: false})).To(BeFalse())
	})

	It("should invoke hooks around predict and update", func() {
		hook := &recordingHook{}
		r := replay.NewReplayer(predictor.NewStatic(false), replay.WithHook(hook))
		rec := trace.Record{Addr: 8, Taken: true}
		r.Step(rec)

		Expect(hook.positions).To(Equal([]*sim.HookPos{
			replay.HookPosPredict, replay.HookPosUpdate,
		}))
		Expect(hook.records).To(Equal([]trace.Record{rec, rec}))
		Expect(hook.detail).To(Equal([]bool{false, false}))
	})

	It("should label with the predictor name by default", func() {
		Expect(replay.NewReplayer(predictor.NewTwoBit()).Name()).To(Equal("twobit"))
		r := replay.NewReplayer(predictor.NewTwoBit(), replay.WithName("tb"))
		Expect(r.Name()).To(Equal("tb"))
	})

	It("should reset statistics and predictor", func() {
		r := replay.NewReplayer(predictor.NewOneBit())
		r.Step(trace.Record{Addr: 4, Taken: false})
		r.Reset()
		Expect(r.Stats()).To(Equal(replay.Stats{}))
		Expect(r.Predictor().Predict(4)).To(BeTrue())

		r.Step(trace.Record{Addr: 4, Taken: true})
		Expect(r.Stats().UniqueBranches).To(Equal(uint64(1)))
	})

	It("should stop on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := replay.NewReplayer(predictor.NewTwoBit())
		_, err := r.Run(ctx, loopTrace(0x10, 4, 10))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("should export prometheus counters", func() {
		reg := prometheus.NewRegistry()
		m, err := replay.NewMetrics(reg)
		Expect(err).NotTo(HaveOccurred())

		r := replay.NewReplayer(predictor.NewStatic(true), replay.WithMetrics(m))
		_, err = r.Run(context.Background(), loopTrace(0x10, 4, 5))
		Expect(err).NotTo(HaveOccurred())

		count, err := testutil.GatherAndCount(reg)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
		problems, err := testutil.GatherAndLint(reg)
		Expect(err).NotTo(HaveOccurred())
		Expect(problems).To(BeEmpty())
	})

	It("should refuse to register metrics twice", func() {
		reg := prometheus.NewRegistry()
		_, err := replay.NewMetrics(reg)
		Expect(err).NotTo(HaveOccurred())
		_, err = replay.NewMetrics(reg)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RunAll", func() {
	It("should replay every config and keep config order", func() {
		cfgs := []predictor.Config{
			predictor.DefaultConfig(predictor.KindStatic),
			predictor.DefaultConfig(predictor.KindOneBit),
			predictor.DefaultConfig(predictor.KindTwoBit),
			predictor.DefaultConfig(predictor.KindBimodal),
			predictor.DefaultConfig(predictor.KindGShare),
			predictor.DefaultConfig(predictor.KindHybrid),
		}
		records := loopTrace(0x400, 8, 50)

		results, err := replay.RunAll(context.Background(), cfgs, records)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(cfgs)))

		for i, res := range results {
			Expect(res.Name).To(Equal(string(cfgs[i].Kind)))
			Expect(res.Stats.Predictions).To(Equal(uint64(len(records))))
			Expect(res.Stats.Correct + res.Stats.Mispredictions).To(Equal(res.Stats.Predictions))
		}

		// always-taken misses exactly the loop exits
		Expect(results[0].Stats.Mispredictions).To(Equal(uint64(50)))
		// one-bit also misses the first taken after every exit
		Expect(results[1].Stats.Mispredictions).To(Equal(uint64(99)))
		// two-bit hysteresis absorbs the single exit
		Expect(results[2].Stats.Mispredictions).To(Equal(uint64(50)))
	})

	It("should match a sequential replay", func() {
		cfg := predictor.DefaultConfig(predictor.KindHybrid)
		cfg.HistoryBits = 4
		cfg.TableSize = 16
		records := append(loopTrace(0x20, 3, 40), loopTrace(0x34, 5, 40)...)

		results, err := replay.RunAll(context.Background(), []predictor.Config{cfg, cfg}, records)
		Expect(err).NotTo(HaveOccurred())

		p, err := predictor.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		want, err := replay.NewReplayer(p).Run(context.Background(), records)
		Expect(err).NotTo(HaveOccurred())

		Expect(results[0].Stats).To(Equal(want))
		Expect(results[1].Stats).To(Equal(want))
	})

	It("should share metrics across concurrent replayers", func() {
		reg := prometheus.NewRegistry()
		m, err := replay.NewMetrics(reg)
		Expect(err).NotTo(HaveOccurred())

		a := predictor.DefaultConfig(predictor.KindBimodal)
		a.Name = "a"
		b := predictor.DefaultConfig(predictor.KindBimodal)
		b.Name = "b"
		records := loopTrace(0x40, 4, 25)

		_, err = replay.RunAll(context.Background(), []predictor.Config{a, b}, records, replay.WithMetrics(m))
		Expect(err).NotTo(HaveOccurred())
		count, err := testutil.GatherAndCount(reg, "bpsim_predictions_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
	})

	It("should fail on invalid configs before replaying", func() {
		cfg := predictor.DefaultConfig(predictor.KindGShare)
		cfg.HistoryBits = 0
		_, err := replay.RunAll(context.Background(), []predictor.Config{cfg}, loopTrace(1, 2, 2))
		Expect(errors.Is(err, predictor.ErrConfiguration)).To(BeTrue())
	})
})
