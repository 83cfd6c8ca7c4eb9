package driver

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	simctx "github.com/san-kum/elastisim/internal/sim"
	"github.com/san-kum/elastisim/internal/viewer"
)

var _ SimContext = (*simctx.Context)(nil)

var _ = Describe("Driver on the shipped scene", func() {
	DescribeTable("ends a headless demo run after the time limit",
		func(singlePoint bool) {
			logger := log.New(io.Discard)
			cfg := RunConfig{
				Demo:        true,
				SinglePoint: singlePoint,
				Viewer:      "headless",
				Seed:        3,
				FrameDir:    filepath.Join(GinkgoT().TempDir(), "frames"),
			}
			registry := viewer.Registry{"headless": viewer.NewHeadless}

			res, err := New(cfg, simctx.NewContext(logger), registry, logger).
				Run(context.Background(), ScenePath(filepath.Join("..", "..")))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TimedOut).To(BeTrue())
			// summed 0.04s steps pass 5.0 after 125 calls, so the 126th call ends the run
			Expect(res.Steps).To(Equal(126))
			Expect(res.SimTime).To(BeNumerically("~", 5.04, 1e-9))
		},
		Entry("scramble", false),
		Entry("collapse", true),
	)
})
