package driver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/initializer"
	"github.com/san-kum/elastisim/internal/storage"
	"github.com/san-kum/elastisim/internal/viewer"
)

var _ = Describe("DemoTimer", func() {
	var cancels int
	cancel := func() { cancels++ }

	BeforeEach(func() { cancels = 0 })

	It("never fires when demo mode is off", func() {
		t := NewDemoTimer(false, DemoLimit, cancel)
		for i := 0; i < 100; i++ {
			t.OnStep(dynamo.StepInfo{Step: i + 1, Dt: 1.0})
		}
		Expect(cancels).To(BeZero())
		Expect(t.State()).To(Equal(TimerIdle))
		Expect(t.Elapsed()).To(BeZero())
	})

	It("checks the limit before adding, firing on the seventh one-second step", func() {
		t := NewDemoTimer(true, DemoLimit, cancel)
		for i := 1; i <= 6; i++ {
			t.OnStep(dynamo.StepInfo{Step: i, Dt: 1.0})
			Expect(cancels).To(BeZero(), "fired early on call %d", i)
		}
		Expect(t.Elapsed()).To(Equal(6.0))
		Expect(t.State()).To(Equal(TimerCounting))

		t.OnStep(dynamo.StepInfo{Step: 7, Dt: 1.0})
		Expect(cancels).To(Equal(1))
		Expect(t.State()).To(Equal(TimerTerminated))
		Expect(t.Elapsed()).To(Equal(6.0))
	})

	It("does not fire when the total is exactly the limit", func() {
		t := NewDemoTimer(true, DemoLimit, cancel)
		for i := 0; i < 10; i++ {
			t.OnStep(dynamo.StepInfo{Dt: 0.5})
		}
		Expect(t.Elapsed()).To(Equal(5.0))
		t.OnStep(dynamo.StepInfo{Dt: 0.5})
		Expect(cancels).To(BeZero())
		t.OnStep(dynamo.StepInfo{Dt: 0.5})
		Expect(cancels).To(Equal(1))
	})

	It("stays terminated after firing", func() {
		t := NewDemoTimer(true, 0, cancel)
		t.OnStep(dynamo.StepInfo{Dt: 1})
		t.OnStep(dynamo.StepInfo{Dt: 1})
		t.OnStep(dynamo.StepInfo{Dt: 1})
		t.OnStep(dynamo.StepInfo{Dt: 1})
		Expect(cancels).To(Equal(1))
		Expect(t.State().String()).To(Equal("terminated"))
	})
})

var _ = Describe("ScenePath", func() {
	It("points at the sample under the source root", func() {
		Expect(ScenePath(".")).To(Equal(filepath.Join("samples", "bunnyexpand", "bunnyexpand.xml")))
		Expect(ScenePath("/opt/src")).To(Equal("/opt/src/samples/bunnyexpand/bunnyexpand.xml"))
	})
})

var _ = Describe("Driver", func() {
	var (
		ctx      context.Context
		sim      *fakeContext
		rec      *recordingViewer
		registry viewer.Registry
		logger   *log.Logger
		cfg      RunConfig
	)

	BeforeEach(func() {
		ctx = context.Background()
		sim = &fakeContext{dt: 1.0}
		rec = &recordingViewer{maxSteps: 3}
		logger = log.New(io.Discard)
		registry = viewer.Registry{
			"recording": func(s viewer.Simulation, _ *log.Logger) viewer.Viewer {
				rec.sim = s
				return rec
			},
			"headless": viewer.NewHeadless,
		}
		cfg = RunConfig{Viewer: "recording", Seed: 7}
	})

	run := func() (*Result, error) {
		return New(cfg, sim, registry, logger).Run(ctx, ScenePath("/src"))
	}

	Context("when the scene cannot be loaded", func() {
		It("reports a scene load error and shows nothing", func() {
			sim.loadErr = os.ErrNotExist
			_, err := run()
			Expect(err).To(MatchError(ErrSceneLoad))
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			Expect(sim.loadedPath).To(Equal("/src/samples/bunnyexpand/bunnyexpand.xml"))
			Expect(rec.displayed).To(BeFalse())
		})

		It("treats initialization failures the same way", func() {
			sim.initErr = errors.New("bad body")
			_, err := run()
			Expect(err).To(MatchError(ErrSceneLoad))
			Expect(rec.displayed).To(BeFalse())
		})
	})

	It("rejects an unknown viewer", func() {
		cfg.Viewer = "hologram"
		_, err := run()
		Expect(err).To(MatchError(viewer.ErrUnknownViewer))
	})

	Context("in scramble mode", func() {
		It("scrambles the nodes and updates the scene before display", func() {
			res, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.displayed).To(BeTrue())

			nonZero := false
			for _, v := range rec.positions {
				Expect(v).To(BeNumerically(">=", -initializer.ScrambleExtent))
				Expect(v).To(BeNumerically("<=", initializer.ScrambleExtent))
				if v != 0 {
					nonZero = true
				}
			}
			Expect(nonZero).To(BeTrue())
			Expect(rec.radius).To(BeNumerically(">", 0))
			Expect(res.Seed).To(Equal(int64(7)))
			Expect(res.Steps).To(Equal(3))
			Expect(res.TimedOut).To(BeFalse())
		})

		It("configures the viewer", func() {
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.settings.GammaCorrection).To(BeFalse())
			Expect(rec.settings.SubdivideMeshes).To(BeTrue())
			Expect(rec.settings.SaveFrames).To(BeFalse())
			Expect(rec.zoom).To(Equal(6.0))
		})

		It("lights the scrambled body from its own extent", func() {
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			for _, l := range rec.lights {
				Expect(l.Position.Length()).To(BeNumerically("<", 12.0))
			}
		})

		It("is reproducible for a fixed seed", func() {
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			first := rec.positions

			sim = &fakeContext{dt: 1.0}
			rec = &recordingViewer{maxSteps: 1}
			_, err = run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.positions).To(Equal(first))
		})
	})

	Context("in collapse mode", func() {
		BeforeEach(func() { cfg.SinglePoint = true })

		It("puts every node on the origin and relights around it", func() {
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			for _, v := range rec.positions {
				Expect(v).To(BeZero())
			}
			Expect(rec.radius).To(BeZero())
			Expect(rec.zoom).To(Equal(6.0))
			Expect(rec.lights).To(HaveLen(3))
			for _, l := range rec.lights {
				Expect(l.Position.Length()).To(BeNumerically("~", 12.0, 1e-9))
			}
		})
	})

	Context("in demo mode", func() {
		BeforeEach(func() {
			cfg.Demo = true
			cfg.Viewer = "headless"
			cfg.FrameDir = filepath.Join(GinkgoT().TempDir(), "frames")
		})

		It("saves frames and ends the display on the seventh step", func() {
			res, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TimedOut).To(BeTrue())
			Expect(res.Steps).To(Equal(7))
			Expect(res.SimTime).To(Equal(7.0))

			entries, err := os.ReadDir(cfg.FrameDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(7))
		})
	})

	It("stops when the caller cancels", func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		cancel()
		rec.maxSteps = 100

		res, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.steps).To(BeZero())
		Expect(res.TimedOut).To(BeFalse())
	})

	It("records the run when a data directory is set", func() {
		cfg.DataDir = GinkgoT().TempDir()
		res, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.RunID).NotTo(BeEmpty())

		st := storage.New(cfg.DataDir)
		meta, err := st.Load(res.RunID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Mode).To(Equal("scramble"))
		Expect(meta.Scene).To(Equal("bunny"))
		Expect(meta.Steps).To(Equal(3))
		Expect(meta.Seed).To(Equal(int64(7)))
		Expect(meta.Metrics).To(HaveKeyWithValue("stability", 1.0))

		nodes, err := st.LoadNodes(res.RunID)
		Expect(err).NotTo(HaveOccurred())
		Expect(nodes.Len()).To(Equal(sim.Positions().Len()))
	})
})
