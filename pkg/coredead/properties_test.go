package coredead

import (
	"context"
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmhorcas/coredead/pkg/cnf"
	"github.com/jmhorcas/coredead/pkg/sat"
)

// randomModel builds a satisfiable-or-not CNF shaped like a feature
// model: a mandatory root, parent implications and a few cross-tree
// constraints. The same seed always gives the same CNF.
func randomModel(seed int64, features int) *cnf.CNF {
	rng := rand.New(rand.NewSource(seed))
	names := make([]cnf.Identifier, features)
	for i := range names {
		names[i] = cnf.Identifier(fmt.Sprintf("f%02d", i))
	}
	r, err := cnf.NewRegistry(names...)
	Expect(err).NotTo(HaveOccurred())

	b := cnf.NewBuilder(r)
	b.Apply(names[0], cnf.Mandatory())
	for i := 1; i < features; i++ {
		parent := names[rng.Intn(i)]
		b.Apply(names[i], cnf.Requires(parent))
		if rng.Intn(4) == 0 {
			b.Apply(parent, cnf.Requires(names[i]))
		}
	}
	for i := 0; i < features/3; i++ {
		a, c := names[1+rng.Intn(features-1)], names[1+rng.Intn(features-1)]
		if a == c {
			continue
		}
		if rng.Intn(2) == 0 {
			b.Apply(a, cnf.Excludes(c))
		} else {
			b.Apply(a, cnf.Requires(c))
		}
	}
	f, err := b.Build()
	Expect(err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Analyzer", func() {
	BeforeEach(func() {
		sat.Init()
	})

	for _, solver := range []string{"gini", "gophersat"} {
		solver := solver

		Context(fmt.Sprintf("with the %s oracle", solver), func() {
			for seed := int64(1); seed <= 8; seed++ {
				seed := seed

				It(fmt.Sprintf("classifies random model %d soundly", seed), func() {
					f := randomModel(seed, 24)
					result, err := Analyze(context.Background(), f, solver)
					Expect(err).NotTo(HaveOccurred())
					Expect(result.Complete).To(BeTrue())
					if result.VoidModel {
						Expect(result.Core).To(HaveLen(f.NumVars()))
						Expect(result.Dead).To(HaveLen(f.NumVars()))
						Expect(result.Queries).To(Equal(1))
						return
					}

					By("partitioning every feature into exactly one class")
					Expect(result.Undecided).To(BeEmpty())
					seen := map[cnf.Identifier]int{}
					for _, list := range [][]cnf.Identifier{result.Core, result.Dead, result.Variable} {
						for _, id := range list {
							seen[id]++
						}
					}
					Expect(seen).To(HaveLen(f.NumVars()))
					for id, n := range seen {
						Expect(n).To(Equal(1), "feature %s", id)
					}

					By("spot checking core and dead features against a fresh oracle")
					o, err := sat.New(solver, f)
					Expect(err).NotTo(HaveOccurred())
					defer o.Close()
					r := f.Registry()
					for _, id := range result.Core {
						m, err := r.LitOf(id, false)
						Expect(err).NotTo(HaveOccurred())
						answer, err := o.Query(context.Background(), m)
						Expect(err).NotTo(HaveOccurred())
						Expect(answer.Outcome).To(Equal(sat.Unsatisfiable), "core feature %s", id)
					}
					for _, id := range result.Dead {
						m, err := r.LitOf(id, true)
						Expect(err).NotTo(HaveOccurred())
						answer, err := o.Query(context.Background(), m)
						Expect(err).NotTo(HaveOccurred())
						Expect(answer.Outcome).To(Equal(sat.Unsatisfiable), "dead feature %s", id)
					}
					for _, id := range result.Variable {
						for _, value := range []bool{true, false} {
							m, err := r.LitOf(id, value)
							Expect(err).NotTo(HaveOccurred())
							answer, err := o.Query(context.Background(), m)
							Expect(err).NotTo(HaveOccurred())
							Expect(answer.Outcome).To(Equal(sat.Satisfiable), "variable feature %s=%t", id, value)
						}
					}

					By("never spending more than two queries per feature")
					Expect(result.Queries).To(BeNumerically("<=", 1+2*f.NumVars()))
				})
			}

			It("is idempotent", func() {
				f := randomModel(42, 30)
				first, err := Analyze(context.Background(), f, solver)
				Expect(err).NotTo(HaveOccurred())
				second, err := Analyze(context.Background(), f, solver)
				Expect(err).NotTo(HaveOccurred())
				Expect(second.Core).To(Equal(first.Core))
				Expect(second.Dead).To(Equal(first.Dead))
				Expect(second.Variable).To(Equal(first.Variable))
				Expect(second.VoidModel).To(Equal(first.VoidModel))
			})

			It("returns a partial result when the budget is zero", func() {
				result, err := Analyze(context.Background(), randomModel(7, 10), solver, WithTimeout(0))
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Complete).To(BeFalse())
				Expect(result.Queries).To(BeZero())
				Expect(result.Undecided).To(HaveLen(10))
			})
		})
	}

	It("agrees across oracles", func() {
		for seed := int64(100); seed < 110; seed++ {
			f := randomModel(seed, 20)
			want, err := Analyze(context.Background(), f, "gini")
			Expect(err).NotTo(HaveOccurred())
			got, err := Analyze(context.Background(), f, "gophersat")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.VoidModel).To(Equal(want.VoidModel), "seed %d", seed)
			Expect(got.Core).To(Equal(want.Core), "seed %d", seed)
			Expect(got.Dead).To(Equal(want.Dead), "seed %d", seed)
		}
	})
})
