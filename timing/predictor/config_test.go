package predictor_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/timing/predictor"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "bpsim-config")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("Defaults", func() {
		It("should use the documented defaults", func() {
			cfg := predictor.DefaultConfig(predictor.KindHybrid)
			Expect(cfg.AlwaysTaken).To(BeTrue())
			Expect(cfg.TableSize).To(Equal(1024))
			Expect(cfg.HistoryBits).To(Equal(10))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should label by kind unless named", func() {
			cfg := predictor.DefaultConfig(predictor.KindGShare)
			Expect(cfg.Label()).To(Equal("gshare"))
			cfg.Name = "gshare-12"
			Expect(cfg.Label()).To(Equal("gshare-12"))
		})
	})

	Describe("Validate", func() {
		It("should reject unknown kinds", func() {
			err := predictor.DefaultConfig("perceptron").Validate()
			Expect(errors.Is(err, predictor.ErrConfiguration)).To(BeTrue())
		})

		It("should reject non-positive sizes for table-based kinds", func() {
			cfg := predictor.DefaultConfig(predictor.KindBimodal)
			cfg.TableSize = 0
			Expect(errors.Is(cfg.Validate(), predictor.ErrConfiguration)).To(BeTrue())

			cfg = predictor.DefaultConfig(predictor.KindGShare)
			cfg.HistoryBits = -1
			Expect(errors.Is(cfg.Validate(), predictor.ErrConfiguration)).To(BeTrue())

			cfg = predictor.DefaultConfig(predictor.KindHybrid)
			cfg.TableSize = -8
			Expect(errors.Is(cfg.Validate(), predictor.ErrConfiguration)).To(BeTrue())
		})

		It("should ignore sizes for kinds that do not use them", func() {
			cfg := predictor.DefaultConfig(predictor.KindTwoBit)
			cfg.TableSize = 0
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("New", func() {
		It("should build every kind", func() {
			for _, kind := range predictor.Kinds() {
				p, err := predictor.New(predictor.DefaultConfig(kind))
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Name()).To(Equal(string(kind)))
			}
		})

		It("should honor the static bias", func() {
			cfg := predictor.DefaultConfig(predictor.KindStatic)
			cfg.AlwaysTaken = false
			p, err := predictor.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Predict(0)).To(BeFalse())
		})

		It("should pass sizes to the hybrid components", func() {
			cfg := predictor.DefaultConfig(predictor.KindHybrid)
			cfg.TableSize = 64
			cfg.HistoryBits = 3
			p, err := predictor.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			h := p.(*predictor.Hybrid)
			Expect(h.SelectorSize()).To(Equal(64))
			Expect(h.Bimodal().TableSize()).To(Equal(64))
			Expect(h.GShare().TableSize()).To(Equal(8))
		})
	})

	Describe("Files", func() {
		It("should keep defaults for fields missing from JSON", func() {
			path := writeFile("gshare.json", `{"kind": "gshare", "history_bits": 12}`)
			cfg, err := predictor.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Kind).To(Equal(predictor.KindGShare))
			Expect(cfg.HistoryBits).To(Equal(12))
			Expect(cfg.TableSize).To(Equal(1024))
			Expect(cfg.AlwaysTaken).To(BeTrue())
		})

		It("should load YAML files", func() {
			path := writeFile("static.yaml", "kind: static\nalways_taken: false\n")
			cfg, err := predictor.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Kind).To(Equal(predictor.KindStatic))
			Expect(cfg.AlwaysTaken).To(BeFalse())
		})

		It("should load a list of predictors", func() {
			path := writeFile("set.yml", `
predictors:
  - kind: bimodal
    table_size: 256
  - kind: hybrid
    name: hybrid-small
    history_bits: 6
`)
			cfgs, err := predictor.LoadConfigs(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfgs).To(HaveLen(2))
			Expect(cfgs[0].TableSize).To(Equal(256))
			Expect(cfgs[0].HistoryBits).To(Equal(10))
			Expect(cfgs[1].Label()).To(Equal("hybrid-small"))
			Expect(cfgs[1].TableSize).To(Equal(1024))
		})

		It("should treat a single config as a one-element list", func() {
			path := writeFile("one.json", `{"kind": "twobit"}`)
			cfgs, err := predictor.LoadConfigs(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfgs).To(HaveLen(1))
			Expect(cfgs[0].Kind).To(Equal(predictor.KindTwoBit))
		})

		It("should reject invalid configs in files", func() {
			path := writeFile("bad.json", `{"kind": "bimodal", "table_size": 0}`)
			_, err := predictor.LoadConfig(path)
			Expect(errors.Is(err, predictor.ErrConfiguration)).To(BeTrue())
		})

		It("should fail on missing files", func() {
			_, err := predictor.LoadConfig(filepath.Join(dir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should round-trip through SaveConfig", func() {
			cfg := predictor.DefaultConfig(predictor.KindHybrid)
			cfg.HistoryBits = 8
			for _, name := range []string{"out.json", "out.yaml"} {
				path := filepath.Join(dir, name)
				Expect(cfg.SaveConfig(path)).To(Succeed())
				loaded, err := predictor.LoadConfig(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(cfg.Clone()))
			}
		})
	})
})
