package security_test

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/grana-sh/grana/internal/security"
	. "github.com/onsi/gomega"
)

func TestGenerateOTPCode(t *testing.T) {
	g := NewWithT(t)

	pattern := regexp.MustCompile("^[0-9]{6}$")
	for range 100 {
		code, err := security.GenerateOTPCode()
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(pattern.MatchString(code)).To(BeTrue(), "code: %s", code)

		n, err := strconv.Atoi(code)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(n).To(BeNumerically(">=", 100000))
		g.Expect(n).To(BeNumerically("<=", 999999))
	}
}

func TestGenerateOTPCode_NotConstant(t *testing.T) {
	g := NewWithT(t)

	seen := make(map[string]bool)
	for range 50 {
		code, err := security.GenerateOTPCode()
		g.Expect(err).NotTo(HaveOccurred())
		seen[code] = true
	}
	g.Expect(len(seen)).To(BeNumerically(">", 1))
}
