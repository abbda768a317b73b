package tracing_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pqsim/pqspr"
	"github.com/sarchlab/pqsim/tracing"
)

var _ = Describe("Tracer", func() {
	var (
		buf    *bytes.Buffer
		file   *pqspr.File
		tracer *tracing.Tracer
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		file = pqspr.NewFile(pqspr.WithTraceWidth(32))
		tracer = tracing.NewTracer(buf)
		file.AcceptHook(tracer)
	})

	It("should write one line per committed register in index order", func() {
		Expect(file.Twiddle().Write(pqspr.Word(0x690))).To(Succeed())
		Expect(file.Q().Write(pqspr.Word(0xD01))).To(Succeed())
		Expect(file.Commit()).To(Succeed())

		Expect(buf.String()).To(Equal("p00 = 0x00000d01\np02 = 0x00000690\n"))
		Expect(tracer.Lines()).To(Equal(uint64(2)))
		Expect(tracer.Err()).NotTo(HaveOccurred())
	})

	It("should not trace aborted cycles", func() {
		Expect(file.Q().Write(pqspr.Word(0xD01))).To(Succeed())
		Expect(file.Abort()).To(Succeed())

		Expect(buf.Len()).To(BeZero())
		Expect(tracer.Lines()).To(BeZero())
	})

	It("should render wiped registers as unknown", func() {
		file.Wipe()
		Expect(file.Commit()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(pqspr.NumRegs))
		Expect(lines[4]).To(Equal("p04 = 0xxxxxxxxx"))
	})

	It("should support the RTL log format", func() {
		rtl := &bytes.Buffer{}
		file.AcceptHook(tracing.NewTracer(rtl, tracing.WithRTLFormat()))

		Expect(file.J().Increment()).To(Succeed())
		Expect(file.Commit()).To(Succeed())

		Expect(rtl.String()).To(Equal("> p12: 0x00000001\n"))
	})

	It("should digest exactly what it wrote", func() {
		Expect(file.X().Increment()).To(Succeed())
		Expect(file.Commit()).To(Succeed())
		Expect(file.Y().Increment()).To(Succeed())
		Expect(file.Commit()).To(Succeed())

		digest, err := tracing.DigestOf(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(tracer.Digest()).To(Equal(digest))
		Expect(tracer.Digest()).To(HaveLen(64))
	})

	It("should digest without a writer", func() {
		silent := tracing.NewTracer(nil)
		file.AcceptHook(silent)

		Expect(file.X().Increment()).To(Succeed())
		Expect(file.Commit()).To(Succeed())

		Expect(silent.Lines()).To(Equal(uint64(1)))
		Expect(silent.Digest()).To(Equal(tracer.Digest()))
	})
})

var _ = Describe("Compare", func() {
	It("should accept identical traces", func() {
		m, err := tracing.Compare(
			strings.NewReader("p00 = 0x1\np02 = 0x2\n"),
			strings.NewReader("p00 = 0x1\np02 = 0x2  \n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(BeNil())
	})

	It("should report the first differing line", func() {
		m, err := tracing.Compare(
			strings.NewReader("p00 = 0x1\np02 = 0x2\np03 = 0x3\n"),
			strings.NewReader("p00 = 0x1\np02 = 0x9\np03 = 0x3\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(m).NotTo(BeNil())
		Expect(m.Line).To(Equal(2))
		Expect(m.Want).To(Equal("p02 = 0x2"))
		Expect(m.Got).To(Equal("p02 = 0x9"))
		Expect(m.Error()).To(ContainSubstring("line 2"))
	})

	It("should report a trace that ends early", func() {
		m, err := tracing.Compare(
			strings.NewReader("p00 = 0x1\np02 = 0x2\n"),
			strings.NewReader("p00 = 0x1\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Line).To(Equal(2))
		Expect(m.Got).To(BeEmpty())
	})
})
