package timeline_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

var _ = Describe("Timeline", func() {
	var (
		r  *frameLog
		tl *timeline.Timeline
		b  *primitive.Builder
	)

	BeforeEach(func() {
		r = &frameLog{}
		tl = timeline.New(r, timeline.WithFPS(10))
		b = newBuilder()
	})

	Describe("status", func() {
		It("starts idle and runs on first submission", func() {
			Expect(tl.Status()).To(Equal(timeline.Idle))
			Expect(tl.Submit(timeline.Pause(time.Second))).To(Succeed())
			Expect(tl.Status()).To(Equal(timeline.Running))

			status, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(timeline.Complete))
			Expect(tl.Pending()).To(BeZero())
		})

		It("completes an empty timeline", func() {
			status, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(timeline.Complete))
			Expect(r.frames).To(BeEmpty())
		})

		It("rejects work once complete", func() {
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(tl.Submit(timeline.Pause(time.Second))).To(MatchError(timeline.ErrTimelineClosed))
			status, err := tl.Run()
			Expect(status).To(Equal(timeline.Complete))
			Expect(err).To(MatchError(timeline.ErrTimelineClosed))
		})

		It("rejects empty steps", func() {
			Expect(tl.Submit(timeline.Seq())).To(MatchError(timeline.ErrEmptyStep))
			Expect(tl.Submit(timeline.Par(nil))).To(MatchError(timeline.ErrEmptyStep))
			Expect(tl.Status()).To(Equal(timeline.Idle))
		})

		It("names its states", func() {
			Expect(timeline.Failed.String()).To(Equal("failed"))
			Expect(timeline.Running.Terminal()).To(BeFalse())
			Expect(timeline.Complete.Terminal()).To(BeTrue())
		})
	})

	Describe("ordering", func() {
		It("resolves a sequential step before the next one starts", func() {
			Expect(tl.Submit(timeline.Seq(named("A", 0)))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(named("B", 0)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			trace := tl.Trace()
			aDone := indexOf(trace, "A", timeline.EventResolve)
			bStart := indexOf(trace, "B", timeline.EventStart)
			Expect(aDone).To(BeNumerically(">=", 0))
			Expect(aDone).To(BeNumerically("<", bStart))
			Expect(trace[bStart].At).To(BeNumerically(">=", trace[aDone].At))
			Expect(tl.Elapsed()).To(Equal(2 * time.Second))
			Expect(r.frames).To(HaveLen(20))
			Expect(r.total()).To(Equal(2 * time.Second))
		})

		It("runs actions of one sequential step back to back", func() {
			Expect(tl.Submit(timeline.Seq(named("A", 300*time.Millisecond), named("B", 700*time.Millisecond)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			b := events(tl.Trace(), "B")
			Expect(b).To(HaveLen(2))
			Expect(b[0].At).To(Equal(300 * time.Millisecond))
			Expect(b[1].At).To(Equal(time.Second))
		})

		It("resolves parallel actions at the same checkpoint", func() {
			Expect(tl.Submit(timeline.Par(named("A", 0), named("B", 0)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			trace := tl.Trace()
			a := trace[indexOf(trace, "A", timeline.EventResolve)]
			b := trace[indexOf(trace, "B", timeline.EventResolve)]
			done := trace[indexOf(trace, "", timeline.EventStepComplete)]
			Expect(a.At).To(Equal(b.At))
			Expect(done.At).To(Equal(a.At))
		})

		It("finishes a parallel step with its slowest action", func() {
			Expect(tl.Submit(timeline.Par(named("fast", time.Second), named("slow", 2*time.Second)))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(named("after", time.Second)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			trace := tl.Trace()
			Expect(trace[indexOf(trace, "fast", timeline.EventStart)].At).To(BeZero())
			Expect(trace[indexOf(trace, "slow", timeline.EventStart)].At).To(BeZero())
			Expect(trace[indexOf(trace, "fast", timeline.EventResolve)].At).To(Equal(time.Second))
			Expect(trace[indexOf(trace, "slow", timeline.EventResolve)].At).To(Equal(2 * time.Second))
			Expect(trace[indexOf(trace, "after", timeline.EventStart)].At).To(Equal(2 * time.Second))
			Expect(tl.Elapsed()).To(Equal(3 * time.Second))
		})

		It("staggers lagged actions", func() {
			step := timeline.Lagged(0.5, named("a", 0), named("b", 0), named("c", 0))
			Expect(tl.Submit(step)).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			trace := tl.Trace()
			Expect(trace[indexOf(trace, "b", timeline.EventStart)].At).To(Equal(500 * time.Millisecond))
			Expect(trace[indexOf(trace, "c", timeline.EventStart)].At).To(Equal(time.Second))
			Expect(tl.Elapsed()).To(Equal(2 * time.Second))
		})

		It("uses the step duration for untimed actions", func() {
			Expect(tl.Submit(timeline.Seq(named("x", 0)).In(3 * time.Second))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.Elapsed()).To(Equal(3 * time.Second))
		})

		It("honours the default run time option", func() {
			tl = timeline.New(r, timeline.WithFPS(10), timeline.WithDefaultRunTime(500*time.Millisecond))
			Expect(tl.Submit(timeline.Seq(named("x", 0)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.Elapsed()).To(Equal(500 * time.Millisecond))
			Expect(r.frames).To(HaveLen(5))
		})

		It("runs steps submitted by a running action", func() {
			late := timeline.Seq(named("late", 0))
			Expect(tl.Submit(timeline.Seq(timeline.Call("enqueue", func(*timeline.Stage) error {
				return tl.Submit(late)
			})))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(indexOf(tl.Trace(), "late", timeline.EventResolve)).To(BeNumerically(">", 0))
		})
	})

	Describe("wait", func() {
		It("holds the clock and redraws the same stage", func() {
			p := box(b, 0)
			Expect(tl.Submit(timeline.Seq(timeline.Add(p)))).To(Succeed())
			Expect(tl.Submit(timeline.Pause(500 * time.Millisecond))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(r.frames).To(HaveLen(5))
			for _, f := range r.frames {
				Expect(f).To(HaveLen(1))
				Expect(f[0].ID()).To(Equal(p.ID()))
			}
		})

		It("composes in parallel like any action", func() {
			Expect(tl.Submit(timeline.Par(timeline.Wait(2*time.Second), named("short", time.Second)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.Elapsed()).To(Equal(2 * time.Second))
		})
	})

	Describe("failure", func() {
		It("stops at the failing step and reports it", func() {
			failing := timeline.Func("explode", 0, func(_ *timeline.Stage, alpha float64) error {
				if alpha > 0.5 {
					return errBoom
				}
				return nil
			})
			Expect(tl.Submit(timeline.Seq(named("ok", 0)))).To(Succeed())
			Expect(tl.Submit(timeline.Par(named("sibling", 0), failing))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(named("never", 0)))).To(Succeed())

			status, err := tl.Run()
			Expect(status).To(Equal(timeline.Failed))
			Expect(errors.Is(err, timeline.ErrActionFailure)).To(BeTrue())
			Expect(errors.Is(err, errBoom)).To(BeTrue())

			var ae *timeline.ActionError
			Expect(errors.As(err, &ae)).To(BeTrue())
			Expect(ae.Step).To(Equal(1))
			Expect(ae.Action).To(Equal("explode"))

			Expect(indexOf(tl.Trace(), "never", timeline.EventStart)).To(Equal(-1))
			Expect(tl.Err()).To(Equal(err))
			Expect(tl.Submit(timeline.Seq(named("more", 0)))).To(MatchError(timeline.ErrTimelineClosed))
		})

		It("wraps renderer errors", func() {
			r.failDrawAt = 3
			Expect(tl.Submit(timeline.Seq(timeline.Add(box(b, 0)), timeline.Wait(time.Second)))).To(Succeed())

			status, err := tl.Run()
			Expect(status).To(Equal(timeline.Failed))
			Expect(err).To(MatchError(timeline.ErrActionFailure))
			Expect(err).To(MatchError(errBoom))
			Expect(r.frames).To(HaveLen(2))
		})

		It("fails a transform of a primitive that is not on stage", func() {
			Expect(tl.Submit(timeline.Seq(timeline.Transform(box(b, 0), box(b, 1))))).To(Succeed())
			_, err := tl.Run()
			Expect(err).To(MatchError(timeline.ErrNotOnStage))
			Expect(err).To(MatchError(timeline.ErrActionFailure))
		})
	})

	Describe("actions", func() {
		It("fades primitives in", func() {
			p := box(b, 0)
			Expect(tl.Submit(timeline.Seq(timeline.FadeIn(p)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(r.frames[0][0].Opacity()).To(BeNumerically("~", 0.1, 1e-9))
			Expect(r.last()[0].Opacity()).To(BeNumerically("~", 1, 1e-9))
		})

		It("fades primitives out and removes them", func() {
			p, q := box(b, 0), box(b, 2)
			Expect(tl.Submit(timeline.Seq(timeline.Add(p, q)))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(timeline.FadeOut(p)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(tl.Stage().Has(p.ID())).To(BeFalse())
			Expect(tl.Stage().Has(q.ID())).To(BeTrue())
			Expect(r.frames[4][0].Opacity()).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("dims and restores a primitive", func() {
			p := box(b, 0)
			Expect(tl.Submit(timeline.Seq(timeline.Add(p)))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(timeline.FadeTo(p, 0.3)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			got, ok := tl.Stage().Get(p.ID())
			Expect(ok).To(BeTrue())
			Expect(got.Opacity()).To(BeNumerically("~", 0.3, 1e-9))
		})

		It("restores a dimmed primitive from its current opacity", func() {
			p := box(b, 0)
			Expect(tl.Submit(timeline.Seq(timeline.Add(p.Dimmed(0.2))))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(timeline.FadeTo(p, 1)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(r.frames[0][0].Opacity()).To(BeNumerically("~", 0.28, 1e-9))
			Expect(r.last()[0].Opacity()).To(BeNumerically("~", 1, 1e-9))
		})

		It("grows arrows when creating them", func() {
			arrow := b.ArrowBetween(geom.Pt(0, 0), geom.Pt(4, 0), primitive.Stroked(palette.Yellow, 0.04))
			Expect(tl.Submit(timeline.Seq(timeline.Create(arrow)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(r.frames[4][0].Length()).To(BeNumerically("~", 2, 1e-9))
			Expect(r.last()[0].Length()).To(BeNumerically("~", 4, 1e-9))
		})

		It("replaces a transformed primitive in its draw slot", func() {
			a, c, d := box(b, 0), box(b, 2), box(b, 4)
			Expect(tl.Submit(timeline.Seq(timeline.Add(a, c)))).To(Succeed())
			Expect(tl.Submit(timeline.Seq(timeline.Transform(a, d)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			mid := r.frames[4]
			Expect(mid[0].ID()).To(Equal(d.ID()))
			Expect(mid[0].Center().X).To(BeNumerically("~", 2, 1e-9))

			final := tl.Stage().Primitives()
			Expect(final).To(HaveLen(2))
			Expect(final[0].ID()).To(Equal(d.ID()))
			Expect(final[1].ID()).To(Equal(c.ID()))
			Expect(tl.Stage().Has(a.ID())).To(BeFalse())
		})

		It("resolves instant steps without drawing", func() {
			p := box(b, 0)
			Expect(tl.Submit(timeline.Seq(timeline.Add(p)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())

			Expect(r.frames).To(BeEmpty())
			Expect(tl.Elapsed()).To(BeZero())
			Expect(tl.Stage().Has(p.ID())).To(BeTrue())
		})

		It("lets For override an action's run time", func() {
			Expect(tl.Submit(timeline.Seq(timeline.For(timeline.FadeIn(box(b, 0)), 200*time.Millisecond)))).To(Succeed())
			_, err := tl.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.Elapsed()).To(Equal(200 * time.Millisecond))
			Expect(r.frames).To(HaveLen(2))
		})
	})
})

var _ = Describe("Stage", func() {
	var (
		s *timeline.Stage
		b *primitive.Builder
	)

	BeforeEach(func() {
		s = timeline.NewStage()
		b = newBuilder()
	})

	It("keeps insertion order and replaces in place", func() {
		p, q := box(b, 0), box(b, 1)
		s.Put(p)
		s.Put(q)
		s.Put(p.Dimmed(0.5))

		got := s.Primitives()
		Expect(got).To(HaveLen(2))
		Expect(got[0].ID()).To(Equal(p.ID()))
		Expect(got[0].Opacity()).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("replaces by id keeping the slot", func() {
		p, q, r := box(b, 0), box(b, 1), box(b, 2)
		s.Put(p)
		s.Put(q)
		Expect(s.Replace(p.ID(), r)).To(BeTrue())
		Expect(s.Replace(p.ID(), r)).To(BeFalse())

		got := s.Primitives()
		Expect(got[0].ID()).To(Equal(r.ID()))
		Expect(got[1].ID()).To(Equal(q.ID()))
	})

	It("drops a duplicate when the replacement is already on stage", func() {
		p, q := box(b, 0), box(b, 1)
		s.Put(p)
		s.Put(q)
		Expect(s.Replace(p.ID(), q)).To(BeTrue())
		Expect(s.Len()).To(Equal(1))
		Expect(s.Primitives()[0].ID()).To(Equal(q.ID()))
	})

	It("removes and clears", func() {
		p := box(b, 0)
		s.Put(p)
		s.Remove(p.ID())
		s.Remove(p.ID())
		Expect(s.Len()).To(BeZero())

		s.Put(p)
		s.Clear()
		Expect(s.Has(p.ID())).To(BeFalse())
	})
})
