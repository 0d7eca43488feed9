package dynamo_test

import (
	"context"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/epipe/internal/dynamo"
	"github.com/san-kum/epipe/internal/landscape"
)

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("running a dual cusp embryo", func() {
		var (
			initial *dynamo.Embryo
			history *dynamo.History
		)

		BeforeEach(func() {
			var err error
			initial, err = dynamo.Initialize(landscape.NewDualCusp(), 10, dynamo.DefaultDistribution(), rand.NewPCG(1, 2))
			Expect(err).NotTo(HaveOccurred())

			s, err := dynamo.New(dynamo.Config{Dt: 0.001, Seed: 7, Workers: 1})
			Expect(err).NotTo(HaveOccurred())

			history, err = s.Run(ctx, initial, 20, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the initial state plus one snapshot per tick", func() {
			Expect(history.Len()).To(Equal(21))
			for _, snap := range history.All() {
				Expect(snap.Len()).To(Equal(10))
				Expect(snap.ModelName()).To(Equal("Dual Cusp"))
			}
		})

		It("keeps snapshot 0 equal to the initial population", func() {
			Expect(history.At(0).Fates()).To(Equal(initial.Fates()))
			Expect(history.At(0).Locations()).To(Equal(initial.Locations()))
		})

		It("places every cell at the potential of its fate", func() {
			model := landscape.NewDualCusp()
			for _, c := range history.Last().Cells() {
				Expect(c.Location().Z).To(BeNumerically("~", model.Potential(c.Fate()), 1e-12))
				Expect(c.Location().X).To(Equal(c.Fate().X))
				Expect(c.Location().Y).To(Equal(c.Fate().Y))
			}
		})

		It("grows per-cell history by one entry per tick", func() {
			for i, snap := range history.All() {
				for _, c := range snap.Cells() {
					Expect(c.HistoryLen()).To(Equal(i + 1))
				}
			}
		})
	})

	Describe("running a heteroclinic flip embryo", func() {
		var initial *dynamo.Embryo

		BeforeEach(func() {
			var err error
			initial, err = dynamo.Initialize(landscape.NewHeteroclinicFlip(), 32, dynamo.DefaultDistribution(), rand.NewPCG(3, 4))
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces identical trajectories sequentially and in parallel", func() {
			run := func(workers int) *dynamo.History {
				s, err := dynamo.New(dynamo.Config{Dt: 0.001, Seed: 5, Workers: workers})
				Expect(err).NotTo(HaveOccurred())
				h, err := s.Run(ctx, initial, 40, 4)
				Expect(err).NotTo(HaveOccurred())
				return h
			}

			seq, par := run(1), run(4)
			Expect(par.Len()).To(Equal(seq.Len()))
			for i := range seq.Len() {
				Expect(par.At(i).Fates()).To(Equal(seq.At(i).Fates()))
			}
		})

		It("is bit-identical across runs when noise is disabled", func() {
			quiet := make([]*dynamo.Cell, initial.Len())
			for i, c := range initial.Cells() {
				quiet[i] = dynamo.NewCell(c.Location(), c.Fate().WithNoise(0))
			}
			e := dynamo.NewEmbryo(initial.Model(), quiet)

			run := func(seed uint64) []dynamo.Fate {
				s, err := dynamo.New(dynamo.Config{Dt: 0.001, Seed: seed, Workers: 2})
				Expect(err).NotTo(HaveOccurred())
				h, err := s.Run(ctx, e, 50, 10)
				Expect(err).NotTo(HaveOccurred())
				return h.Last().Fates()
			}

			Expect(run(1)).To(Equal(run(2)))
		})
	})

	Describe("configuration errors", func() {
		It("rejects a non-positive dt at construction", func() {
			_, err := dynamo.New(dynamo.Config{Dt: 0})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects a zero save interval before any tick runs", func() {
			s, err := dynamo.New(dynamo.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			e, err := dynamo.Initialize(landscape.NewDualCusp(), 2, dynamo.DefaultDistribution(), rand.NewPCG(1, 1))
			Expect(err).NotTo(HaveOccurred())

			h, err := s.Run(ctx, e, 5, 0)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(h).To(BeNil())
		})
	})
})
