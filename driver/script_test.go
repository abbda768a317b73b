package driver_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pqsim/driver"
	"github.com/sarchlab/pqsim/pqspr"
)

var _ = Describe("Script", func() {
	It("should parse every statement", func() {
		stmts, err := driver.Parse(strings.NewReader(`
# twiddle setup
write q 0xd01
lane omega 3 0x1234   # lane write
inc idx_omega
set p13
update 11
load_psi
negate
twiddle
invalid rc
wipe
commit
expect twiddle x
abort
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(stmts).To(HaveLen(13))

		Expect(stmts[0].Line).To(Equal(3))
		Expect(stmts[0].Verb).To(Equal(driver.VerbWrite))
		Expect(stmts[0].Reg).To(Equal("q"))
		Expect(stmts[0].Value).To(Equal(pqspr.Word(0xd01)))

		Expect(stmts[1].Verb).To(Equal(driver.VerbLane))
		Expect(stmts[1].Lane).To(Equal(3))
		Expect(stmts[1].Value).To(Equal(pqspr.Word(0x1234)))
		Expect(stmts[1].String()).To(Equal("lane omega 3 0x1234"))

		Expect(stmts[3].Reg).To(Equal("p13"))
		Expect(stmts[4].Reg).To(Equal("11"))
		Expect(stmts[10].Closes()).To(BeTrue())
		Expect(stmts[11].Value.IsUnknown()).To(BeTrue())
		Expect(stmts[12].Verb).To(Equal(driver.VerbAbort))
	})

	It("should accept upper-case verbs and decimal values", func() {
		stmt, ok, err := driver.ParseLine("WRITE const 4096", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(stmt.Value).To(Equal(pqspr.Word(4096)))
	})

	It("should skip blank and comment lines", func() {
		_, ok, err := driver.ParseLine("   # nothing", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	DescribeTable("should reject malformed lines",
		func(line string) {
			_, _, err := driver.ParseLine(line, 7)
			Expect(err).To(MatchError(driver.ErrSyntax))

			var syntaxErr *driver.SyntaxError
			Expect(err).To(BeAssignableToTypeOf(syntaxErr))
			Expect(err.Error()).To(HavePrefix("line 7:"))
		},
		Entry("unknown verb", "frobnicate q"),
		Entry("missing operand", "write q"),
		Entry("extra operand", "commit now"),
		Entry("bad value", "write q 0xzz"),
		Entry("bad lane", "lane omega one 1"),
		Entry("unknown lane value", "lane omega 1 x"),
		Entry("lane value wider than 64 bits", "lane omega 1 0x10000000000000000"),
	)
})
