package driver_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pqsim/driver"
	"github.com/sarchlab/pqsim/params"
	"github.com/sarchlab/pqsim/pqspr"
	"github.com/sarchlab/pqsim/tracing"
)

var _ = Describe("Driver", func() {
	var (
		file *pqspr.File
		drv  *driver.Driver
	)

	run := func(script string) error {
		stmts, err := driver.Parse(strings.NewReader(script))
		Expect(err).NotTo(HaveOccurred())
		return drv.Run(stmts)
	}

	BeforeEach(func() {
		file = pqspr.NewFile()
		var err error
		drv, err = driver.NewDriver(file)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should run a Montgomery twiddle update", func() {
		Expect(run(`
write q 0xd01
write q_dash 0x94570cff
write omega 0x1234
write twiddle 2
commit
twiddle
commit
expect twiddle 0x690
`)).To(Succeed())

		Expect(file.Twiddle().ReadCurrent()).To(Equal(pqspr.Word(0x690)))
		Expect(drv.Stats()).To(Equal(driver.Stats{
			Cycles:    2,
			Commits:   2,
			Ops:       5,
			Committed: 5,
			Expects:   1,
		}))
	})

	It("should drive the address counters", func() {
		Expect(run(`
write j 0x333
write m 0x11
commit
set idx_0
set idx_1
update m
update j2
commit
expect idx_0 0xcc
expect idx_1 0xdd
expect m 0x8
expect j2 0
`)).To(Succeed())
	})

	It("should drop aborted cycles", func() {
		Expect(run(`
write const 5
abort
expect const 0
`)).To(Succeed())

		Expect(drv.Stats().Aborts).To(Equal(uint64(1)))
		Expect(drv.Stats().Committed).To(BeZero())
	})

	It("should check unknown values after a wipe", func() {
		Expect(run(`
wipe
commit
expect psi x
write q 7
commit
expect q 7
expect q_dash x
`)).To(Succeed())
		Expect(drv.Stats().Committed).To(Equal(uint64(pqspr.NumRegs + 1)))
	})

	It("should report a failed expectation", func() {
		err := run(`
write q 1
commit
expect q 2
`)
		var expectErr *driver.ExpectError
		Expect(err).To(BeAssignableToTypeOf(expectErr))
		Expect(err.Error()).To(Equal("line 4: expected q = 0x2, got 0x1"))
	})

	It("should stop at a contract violation and abort the cycle", func() {
		err := run(`
write y 0xffffffff
commit
write q 3
inc y
commit
`)
		Expect(err).To(MatchError(pqspr.ErrOverflow))
		Expect(err.Error()).To(HavePrefix("line 5: inc:"))
		Expect(file.Pending()).To(BeEmpty())
		Expect(file.Q().ReadCurrent()).To(Equal(pqspr.Word(0)))
	})

	It("should reject unsupported operations", func() {
		Expect(run("update q\ncommit\n")).To(MatchError(pqspr.ErrUnsupported))
	})

	It("should reject unknown registers", func() {
		Expect(run("inc nope\ncommit\n")).To(HaveOccurred())
	})

	It("should reject a script that leaves a cycle open", func() {
		Expect(run("write q 1\n")).To(MatchError(driver.ErrOpenCycle))
		Expect(file.Pending()).To(BeEmpty())
	})

	It("should log statements in verbose mode", func() {
		log := &bytes.Buffer{}
		var err error
		drv, err = driver.NewDriver(file, driver.WithLog(log), driver.WithVerbose(true))
		Expect(err).NotTo(HaveOccurred())

		Expect(run("inc x\ncommit\n")).To(Succeed())
		Expect(log.String()).To(Equal("[0] inc x\n[0] commit\ncommit: 1 registers\n"))
	})

	Context("with seeded constants", func() {
		var consts *params.Constants

		BeforeEach(func() {
			var err error
			consts, err = params.Derive(params.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			drv, err = driver.NewDriver(file, driver.WithSeed(consts))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should preload the NTT constants", func() {
			Expect(run(`
expect q 3329
expect q_dash 0x94570cff
expect psi 0x101
expect omega 0x409
expect m 0x80
`)).To(Succeed())
		})

		It("should walk the first twiddle factors", func() {
			Expect(run(`
load_psi
commit
expect twiddle 0x101
twiddle
commit
expect twiddle 0xae8
negate
commit
`)).To(Succeed())

			Expect(file.Twiddle().ReadCurrent()).To(Equal(pqspr.Word(3329 - 0xae8)))
		})

		It("should seed again on reset", func() {
			Expect(run("write q 5\ncommit\n")).To(Succeed())
			Expect(drv.Reset()).To(Succeed())

			Expect(file.Q().ReadCurrent()).To(Equal(pqspr.Word(3329)))
			Expect(drv.Stats()).To(Equal(driver.Stats{}))
		})

		It("should feed a tracer through the file hooks", func() {
			trace := &bytes.Buffer{}
			file.AcceptHook(tracing.NewTracer(trace, tracing.WithRTLFormat()))

			Expect(run("load_psi\ncommit\n")).To(Succeed())
			Expect(trace.String()).To(Equal("> p02: 0x" + strings.Repeat("0", 61) + "101\n"))
		})
	})
})
