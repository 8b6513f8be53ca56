package log_test

import (
	"bytes"

	"github.com/logzilla/query2excel/pkg/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
)

var _ = Describe("log", func() {
	DescribeTable("redacts credentials",
		func(value, expected string) {
			Expect(log.RedactToken(value)).To(Equal(expected))
		},
		Entry("token scheme", "token abc", "token <redacted>"),
		Entry("bearer scheme", "Bearer a.b.c", "Bearer <redacted>"),
		Entry("no scheme", "abc", "<redacted>"),
		Entry("empty value", "", "<redacted>"),
	)

	DescribeTable("maps flags to a level",
		func(verbose, debug bool, expected zapcore.Level) {
			Expect(log.LevelFromFlags(verbose, debug).Level()).To(Equal(expected))
		},
		Entry("no flag", false, false, log.SilentLevel),
		Entry("verbose", true, false, zapcore.InfoLevel),
		Entry("debug", false, true, zapcore.DebugLevel),
		Entry("debug and verbose", true, true, zapcore.DebugLevel),
	)

	It("writes nothing at the silent level", func() {
		var out bytes.Buffer
		logger := log.InitLog(log.LevelFromFlags(false, false), &out)

		logger.Error("submission rejected")
		logger.Warn("no records")
		Expect(logger.Sync()).To(Succeed())

		Expect(out.String()).To(BeEmpty())
	})

	It("writes named console lines to the given writer", func() {
		var out bytes.Buffer
		logger := log.InitLog(log.LevelFromFlags(true, false), &out)

		logger.Named("runner").Info("Starting query...")
		logger.Debug("hidden")
		Expect(logger.Sync()).To(Succeed())

		Expect(out.String()).To(ContainSubstring("info"))
		Expect(out.String()).To(ContainSubstring("query2excel.runner"))
		Expect(out.String()).To(ContainSubstring("Starting query..."))
		Expect(out.String()).NotTo(ContainSubstring("hidden"))
	})
})
