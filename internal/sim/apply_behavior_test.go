package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dronelab/tellosim/internal/sim"
)

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = sim.New(sim.DefaultOptions())
	})

	Describe("applying commands while landed", func() {
		It("rejects movement", func() {
			_, err := s.Apply(sim.Command{Name: sim.CmdForward, Dist: 100})
			Expect(err).To(MatchError(sim.ErrInvalidState))
			Expect(s.Path()).To(BeEmpty())
		})

		It("allows takeoff exactly once", func() {
			st, err := s.Apply(sim.Command{Name: sim.CmdTakeoff})
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Airborne).To(BeTrue())

			_, err = s.Apply(sim.Command{Name: sim.CmdTakeoff})
			Expect(err).To(MatchError(sim.ErrInvalidState))
		})
	})

	Describe("applying commands while airborne", func() {
		BeforeEach(func() {
			_, err := s.Apply(sim.Command{Name: sim.CmdTakeoff})
			Expect(err).NotTo(HaveOccurred())
		})

		It("appends exactly one snapshot per valid command", func() {
			for i, cmd := range []sim.Command{
				{Name: sim.CmdForward, Dist: 100},
				{Name: sim.CmdCW, Deg: 90},
				{Name: sim.CmdUp, Dist: 30},
				{Name: sim.CmdFlip, Flip: sim.FlipForward},
				{Name: sim.CmdLand},
			} {
				_, err := s.Apply(cmd)
				Expect(err).NotTo(HaveOccurred(), "command %s", cmd)
				Expect(s.Path()).To(HaveLen(i + 2))
			}
		})

		It("leaves the log unchanged on out-of-range arguments", func() {
			before := len(s.Path())
			_, err := s.Apply(sim.Command{Name: sim.CmdForward, Dist: 5000})
			Expect(err).To(MatchError(sim.ErrInvalidParameter))
			Expect(s.Path()).To(HaveLen(before))
		})

		It("tracks yaw through rotations", func() {
			_, err := s.Apply(sim.Command{Name: sim.CmdCW, Deg: 90})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State().Yaw).To(Equal(90.0))

			_, err = s.Apply(sim.Command{Name: sim.CmdCCW, Deg: 180})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State().Yaw).To(Equal(270.0))
		})
	})
})
