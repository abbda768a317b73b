package params_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pqsim/params"
)

var _ = Describe("Config", func() {
	var config *params.Config

	BeforeEach(func() {
		config = params.DefaultConfig()
	})

	Describe("Default values", func() {
		It("should use the Kyber prime", func() {
			Expect(config.Modulus).To(Equal(uint32(3329)))
			Expect(config.LogOrder).To(Equal(uint32(8)))
		})

		It("should trace with the p prefix at 256 bits", func() {
			Expect(config.Prefix).To(Equal("p"))
			Expect(config.TraceWidth).To(Equal(256))
			Expect(config.Inverse).To(BeFalse())
		})

		It("should validate", func() {
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should reject an even modulus", func() {
			config.Modulus = 4096
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a zero order", func() {
			config.LogOrder = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject an empty prefix", func() {
			config.Prefix = ""
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a trace width that is not whole hex digits", func() {
			config.TraceWidth = 30
			Expect(config.Validate()).To(HaveOccurred())

			config.TraceWidth = 512
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should copy without aliasing", func() {
			clone := config.Clone()
			Expect(clone).To(Equal(config))

			clone.Modulus = 8380417
			Expect(config.Modulus).To(Equal(uint32(3329)))
		})
	})

	Describe("Load and Save", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should round-trip through a file", func() {
			config.Modulus = 8380417
			config.LogOrder = 9
			config.Inverse = true
			path := filepath.Join(dir, "session.json")

			Expect(config.SaveConfig(path)).To(Succeed())
			loaded, err := params.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(config))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"modulus": 12289}`), 0644)).To(Succeed())

			loaded, err := params.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Modulus).To(Equal(uint32(12289)))
			Expect(loaded.LogOrder).To(Equal(uint32(8)))
			Expect(loaded.Prefix).To(Equal("p"))
		})

		It("should fail on a missing file", func() {
			_, err := params.LoadConfig(filepath.Join(dir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{"modulus":`), 0644)).To(Succeed())

			_, err := params.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
